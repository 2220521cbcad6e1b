// Package stream publishes simulation lifecycle events to Kafka so
// downstream reporting consumers can react to recomputed projections.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher emits one event per computed simulation.
type Publisher interface {
	PublishComputed(ctx context.Context, ev ComputedEvent) error
	Close() error
}

// ComputedEvent is the envelope written for every engine run that was
// persisted (create or inputs update).
type ComputedEvent struct {
	SimulationID string    `json:"simulationId"`
	Name         string    `json:"name"`
	Action       string    `json:"action"` // "created" | "recomputed"
	TotalRevenue float64   `json:"totalRevenue"`
	ComputedAt   time.Time `json:"computedAt"`
}

type KafkaConfig struct {
	Brokers []string
	Topic   string

	// MaxAttempts bounds produce retries; defaults to 3.
	MaxAttempts int

	// WriteTimeout is the per-attempt write deadline; defaults to 10s.
	WriteTimeout time.Duration
}

// KafkaPublisher wraps a kafka-go Writer with bounded retries. Messages are
// keyed by simulation ID so per-simulation ordering is preserved.
type KafkaPublisher struct {
	writer      *kafka.Writer
	maxAttempts int
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: at least one broker required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka: topic required")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeout,
		Async:        false,
	})
	return &KafkaPublisher{writer: w, maxAttempts: cfg.MaxAttempts}, nil
}

func (p *KafkaPublisher) PublishComputed(ctx context.Context, ev ComputedEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: encode event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.SimulationID),
		Value: value,
		Time:  time.Now().UTC(),
	}

	var lastErr error
	backoff := 100 * time.Millisecond
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := p.writer.WriteMessages(attemptCtx, msg)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(backoff)
		if backoff < 2*time.Second {
			backoff *= 2
		}
	}
	return fmt.Errorf("kafka: publish after %d attempts: %w", p.maxAttempts, lastErr)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

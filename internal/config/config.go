// Package config loads runtime settings for the fincast service from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Addr        string
	DatabaseURL string

	// AuthSecret verifies HS256 bearer tokens on write routes. When
	// AllowDevToken is set, the shared DevToken is accepted instead
	// (local development only).
	AuthSecret    string
	AllowDevToken bool
	DevToken      string

	// Kafka event stream; disabled when no brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string

	// Snapshot archival: S3 when a bucket is set, otherwise a local
	// directory when ArchiveDir is set, otherwise disabled.
	S3Bucket   string
	S3Prefix   string
	ArchiveDir string
}

const (
	defaultAddr       = ":8072"
	defaultKafkaTopic = "fincast.simulations"
)

func Load() (Config, error) {
	cfg := Config{
		Addr:          getEnv("FINCAST_ADDR", defaultAddr),
		DatabaseURL:   firstNonEmpty(os.Getenv("FINCAST_DATABASE_URL"), os.Getenv("DATABASE_URL")),
		AuthSecret:    os.Getenv("FINCAST_AUTH_SECRET"),
		AllowDevToken: getBool("FINCAST_ALLOW_DEV_TOKEN", false),
		DevToken:      os.Getenv("FINCAST_DEV_TOKEN"),
		KafkaBrokers:  splitList(os.Getenv("FINCAST_KAFKA_BROKERS")),
		KafkaTopic:    getEnv("FINCAST_KAFKA_TOPIC", defaultKafkaTopic),
		S3Bucket:      os.Getenv("FINCAST_S3_BUCKET"),
		S3Prefix:      os.Getenv("FINCAST_S3_PREFIX"),
		ArchiveDir:    os.Getenv("FINCAST_ARCHIVE_DIR"),
	}
	if cfg.AuthSecret == "" && !cfg.AllowDevToken {
		return Config{}, fmt.Errorf("FINCAST_AUTH_SECRET required (or set FINCAST_ALLOW_DEV_TOKEN for local development)")
	}
	if cfg.AllowDevToken && cfg.DevToken == "" {
		return Config{}, fmt.Errorf("FINCAST_DEV_TOKEN required when FINCAST_ALLOW_DEV_TOKEN is set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

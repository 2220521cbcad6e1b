// Package service orchestrates simulation lifecycle: every create or
// inputs update runs the projection engine and persists inputs plus the
// freshly computed monthly data together, so the stored output is always a
// pure function of the stored inputs.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fincast/fincast/internal/archive"
	"github.com/fincast/fincast/internal/engine"
	"github.com/fincast/fincast/internal/models"
	"github.com/fincast/fincast/internal/store"
	"github.com/fincast/fincast/internal/stream"
)

type Service struct {
	store     store.Store
	publisher stream.Publisher
	archiver  archive.Archiver
}

// New builds a Service. publisher and archiver may be nil; both side
// channels are best-effort and disabled when absent.
func New(st store.Store, publisher stream.Publisher, archiver archive.Archiver) *Service {
	return &Service{store: st, publisher: publisher, archiver: archiver}
}

// Project runs the engine without persisting anything.
func (s *Service) Project(ctx context.Context, inputs models.SimulationInputs) ([]models.MonthlyData, error) {
	return engine.ProjectMonths(inputs)
}

type CreateRequest struct {
	Name   string                  `json:"name"`
	Inputs models.SimulationInputs `json:"inputs"`
}

func (s *Service) CreateSimulation(ctx context.Context, req CreateRequest) (models.Simulation, error) {
	if req.Name == "" {
		return models.Simulation{}, fmt.Errorf("name required")
	}
	monthly, err := engine.ProjectMonths(req.Inputs)
	if err != nil {
		return models.Simulation{}, fmt.Errorf("project: %w", err)
	}
	sim, err := s.store.CreateSimulation(ctx, store.SimulationInput{
		Name:        req.Name,
		Inputs:      req.Inputs,
		MonthlyData: monthly,
	})
	if err != nil {
		return models.Simulation{}, err
	}
	s.emitComputed(ctx, sim, "created")
	return sim, nil
}

type UpdateRequest struct {
	ID     uuid.UUID
	Name   *string
	Inputs models.SimulationInputs
}

// UpdateInputs replaces a simulation's assumption snapshot and recomputes
// its monthly data before persisting.
func (s *Service) UpdateInputs(ctx context.Context, req UpdateRequest) (models.Simulation, error) {
	monthly, err := engine.ProjectMonths(req.Inputs)
	if err != nil {
		return models.Simulation{}, fmt.Errorf("project: %w", err)
	}
	sim, err := s.store.UpdateSimulation(ctx, store.SimulationUpdate{
		ID:          req.ID,
		Name:        req.Name,
		Inputs:      req.Inputs,
		MonthlyData: monthly,
	})
	if err != nil {
		return models.Simulation{}, err
	}
	s.emitComputed(ctx, sim, "recomputed")
	return sim, nil
}

func (s *Service) GetSimulation(ctx context.Context, id uuid.UUID) (models.Simulation, error) {
	return s.store.GetSimulation(ctx, id)
}

func (s *Service) ListSimulations(ctx context.Context, filter store.ListFilter) ([]models.Simulation, error) {
	return s.store.ListSimulations(ctx, filter)
}

func (s *Service) DeleteSimulation(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteSimulation(ctx, id)
}

// emitComputed publishes the lifecycle event and archives the snapshot.
// Both channels are side output: failures are logged, never returned.
func (s *Service) emitComputed(ctx context.Context, sim models.Simulation, action string) {
	if s.publisher != nil {
		ev := stream.ComputedEvent{
			SimulationID: sim.ID.String(),
			Name:         sim.Name,
			Action:       action,
			TotalRevenue: annualRevenue(sim.MonthlyData),
			ComputedAt:   time.Now().UTC(),
		}
		if err := s.publisher.PublishComputed(ctx, ev); err != nil {
			log.Printf("[service] warning: publish %s event for %s: %v", action, sim.ID, err)
		}
	}
	if s.archiver != nil {
		if err := s.archiver.ArchiveSimulation(ctx, sim); err != nil {
			log.Printf("[service] warning: archive simulation %s: %v", sim.ID, err)
		}
	}
}

func annualRevenue(monthly []models.MonthlyData) float64 {
	total := 0.0
	for _, md := range monthly {
		total += md.Totals.TotalRevenue
	}
	return total
}

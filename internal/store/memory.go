package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fincast/fincast/internal/models"
)

type MemoryStore struct {
	mu   sync.RWMutex
	sims map[uuid.UUID]models.Simulation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sims: map[uuid.UUID]models.Simulation{}}
}

func (m *MemoryStore) CreateSimulation(ctx context.Context, in SimulationInput) (models.Simulation, error) {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	now := time.Now().UTC()
	sim := models.Simulation{
		ID:          in.ID,
		Name:        in.Name,
		Inputs:      in.Inputs,
		MonthlyData: append([]models.MonthlyData(nil), in.MonthlyData...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sims[sim.ID] = sim
	return sim, nil
}

func (m *MemoryStore) GetSimulation(ctx context.Context, id uuid.UUID) (models.Simulation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sim, ok := m.sims[id]
	if !ok {
		return models.Simulation{}, ErrNotFound
	}
	return sim, nil
}

func (m *MemoryStore) ListSimulations(ctx context.Context, filter ListFilter) ([]models.Simulation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sims := make([]models.Simulation, 0, len(m.sims))
	for _, sim := range m.sims {
		sims = append(sims, sim)
	}
	sort.Slice(sims, func(i, j int) bool {
		return sims[i].CreatedAt.After(sims[j].CreatedAt)
	})
	start := filter.Offset
	if start < 0 {
		start = 0
	}
	if start > len(sims) {
		start = len(sims)
	}
	end := start + normalizeLimit(filter.Limit)
	if end > len(sims) {
		end = len(sims)
	}
	result := make([]models.Simulation, end-start)
	copy(result, sims[start:end])
	return result, nil
}

func (m *MemoryStore) UpdateSimulation(ctx context.Context, in SimulationUpdate) (models.Simulation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sim, ok := m.sims[in.ID]
	if !ok {
		return models.Simulation{}, ErrNotFound
	}
	if in.Name != nil {
		sim.Name = *in.Name
	}
	sim.Inputs = in.Inputs
	sim.MonthlyData = append([]models.MonthlyData(nil), in.MonthlyData...)
	sim.UpdatedAt = time.Now().UTC()
	m.sims[in.ID] = sim
	return sim, nil
}

func (m *MemoryStore) DeleteSimulation(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sims[id]; !ok {
		return ErrNotFound
	}
	delete(m.sims, id)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

// Package store persists Simulation records. PGStore is the production
// implementation; MemoryStore backs tests and local development.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fincast/fincast/internal/models"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	CreateSimulation(ctx context.Context, in SimulationInput) (models.Simulation, error)
	GetSimulation(ctx context.Context, id uuid.UUID) (models.Simulation, error)
	ListSimulations(ctx context.Context, filter ListFilter) ([]models.Simulation, error)
	UpdateSimulation(ctx context.Context, in SimulationUpdate) (models.Simulation, error)
	DeleteSimulation(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// SimulationInput carries a new record. MonthlyData must already be the
// engine output for Inputs; the store never recomputes.
type SimulationInput struct {
	ID          uuid.UUID
	Name        string
	Inputs      models.SimulationInputs
	MonthlyData []models.MonthlyData
}

// SimulationUpdate replaces a record's inputs and recomputed output. A nil
// Name leaves the stored name untouched.
type SimulationUpdate struct {
	ID          uuid.UUID
	Name        *string
	Inputs      models.SimulationInputs
	MonthlyData []models.MonthlyData
}

type ListFilter struct {
	Limit  int
	Offset int
}

type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// EnsureSchema creates the simulations table if it does not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS simulations (
  id uuid PRIMARY KEY,
  name text NOT NULL,
  inputs jsonb NOT NULL,
  monthly_data jsonb NOT NULL,
  created_at timestamptz NOT NULL DEFAULT now(),
  updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_simulations_created_at ON simulations (created_at DESC);
`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSimulation(row rowScanner) (models.Simulation, error) {
	var (
		sim        models.Simulation
		inputsRaw  []byte
		monthlyRaw []byte
	)
	if err := row.Scan(
		&sim.ID,
		&sim.Name,
		&inputsRaw,
		&monthlyRaw,
		&sim.CreatedAt,
		&sim.UpdatedAt,
	); err != nil {
		return models.Simulation{}, err
	}
	if err := json.Unmarshal(inputsRaw, &sim.Inputs); err != nil {
		return models.Simulation{}, fmt.Errorf("decode inputs: %w", err)
	}
	if err := json.Unmarshal(monthlyRaw, &sim.MonthlyData); err != nil {
		return models.Simulation{}, fmt.Errorf("decode monthly data: %w", err)
	}
	return sim, nil
}

func marshalRecord(inputs models.SimulationInputs, monthly []models.MonthlyData) ([]byte, []byte, error) {
	inputsRaw, err := json.Marshal(inputs)
	if err != nil {
		return nil, nil, fmt.Errorf("encode inputs: %w", err)
	}
	monthlyRaw, err := json.Marshal(monthly)
	if err != nil {
		return nil, nil, fmt.Errorf("encode monthly data: %w", err)
	}
	return inputsRaw, monthlyRaw, nil
}

func (s *PGStore) CreateSimulation(ctx context.Context, in SimulationInput) (models.Simulation, error) {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	inputsRaw, monthlyRaw, err := marshalRecord(in.Inputs, in.MonthlyData)
	if err != nil {
		return models.Simulation{}, err
	}
	const query = `
		INSERT INTO simulations (id, name, inputs, monthly_data)
		VALUES ($1,$2,$3,$4)
		RETURNING id, name, inputs, monthly_data, created_at, updated_at
	`
	sim, err := scanSimulation(s.db.QueryRowContext(ctx, query, in.ID, in.Name, inputsRaw, monthlyRaw))
	if err != nil {
		return models.Simulation{}, fmt.Errorf("insert simulation: %w", err)
	}
	return sim, nil
}

func (s *PGStore) GetSimulation(ctx context.Context, id uuid.UUID) (models.Simulation, error) {
	const query = `
		SELECT id, name, inputs, monthly_data, created_at, updated_at
		FROM simulations WHERE id=$1
	`
	sim, err := scanSimulation(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Simulation{}, ErrNotFound
		}
		return models.Simulation{}, fmt.Errorf("get simulation: %w", err)
	}
	return sim, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func (s *PGStore) ListSimulations(ctx context.Context, filter ListFilter) ([]models.Simulation, error) {
	query := `
		SELECT id, name, inputs, monthly_data, created_at, updated_at
		FROM simulations
		ORDER BY created_at DESC
		LIMIT $1
	`
	args := []interface{}{normalizeLimit(filter.Limit)}
	if filter.Offset > 0 {
		query += " OFFSET $2"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list simulations: %w", err)
	}
	defer rows.Close()

	var sims []models.Simulation
	for rows.Next() {
		sim, err := scanSimulation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan simulation: %w", err)
		}
		sims = append(sims, sim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate simulations: %w", err)
	}
	return sims, nil
}

func (s *PGStore) UpdateSimulation(ctx context.Context, in SimulationUpdate) (models.Simulation, error) {
	inputsRaw, monthlyRaw, err := marshalRecord(in.Inputs, in.MonthlyData)
	if err != nil {
		return models.Simulation{}, err
	}
	const query = `
		UPDATE simulations
		SET name=COALESCE($2, name),
		    inputs=$3,
		    monthly_data=$4,
		    updated_at=NOW()
		WHERE id=$1
		RETURNING id, name, inputs, monthly_data, created_at, updated_at
	`
	sim, err := scanSimulation(s.db.QueryRowContext(ctx, query, in.ID, in.Name, inputsRaw, monthlyRaw))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Simulation{}, ErrNotFound
		}
		return models.Simulation{}, fmt.Errorf("update simulation: %w", err)
	}
	return sim, nil
}

func (s *PGStore) DeleteSimulation(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM simulations WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete simulation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete simulation: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return nil
}

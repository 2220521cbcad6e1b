package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fincast/fincast/internal/models"
)

// FileArchiver is the dev/test archiver: one pretty-printed JSON file per
// simulation under a local directory.
type FileArchiver struct {
	dir string
}

func NewFileArchiver(dir string) *FileArchiver {
	_ = os.MkdirAll(dir, 0o755)
	return &FileArchiver{dir: dir}
}

func (f *FileArchiver) ArchiveSimulation(ctx context.Context, sim models.Simulation) error {
	body, err := json.MarshalIndent(sim, "", "  ")
	if err != nil {
		return fmt.Errorf("encode simulation: %w", err)
	}
	path := filepath.Join(f.dir, fmt.Sprintf("simulation_%s.json", sim.ID))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

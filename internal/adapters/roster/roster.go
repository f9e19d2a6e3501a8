// Package roster loads the employee directory from a YAML file and serves
// request-scoped snapshots of it.
package roster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/okian/crewplan/internal/domain/model"
)

// Sentinel kinds for roster errors.
var (
	ErrLoad = errors.New("roster load failed")
)

// wireEmployee is the file shape. Workload arrives as a 0-100 percentage and
// is converted to a 0-1 ratio at this boundary.
type wireEmployee struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Role       string   `yaml:"role"`
	Skills     []string `yaml:"skills"`
	Workload   float64  `yaml:"workload"`
	HourlyRate float64  `yaml:"hourly_rate"`
	Experience float64  `yaml:"experience_years"`
	Stress     float64  `yaml:"stress"`
	Efficiency float64  `yaml:"efficiency"`
	Available  *bool    `yaml:"available"`
}

type rosterFile struct {
	Employees []wireEmployee `yaml:"employees"`
}

// Load reads and validates a roster file.
func Load(path string) ([]model.Employee, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	var f rosterFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	employees := make([]model.Employee, 0, len(f.Employees))
	for _, w := range f.Employees {
		available := true
		if w.Available != nil {
			available = *w.Available
		}
		employees = append(employees, model.Employee{
			ID:         w.ID,
			Name:       w.Name,
			Role:       w.Role,
			Skills:     w.Skills,
			Workload:   w.Workload / 100,
			HourlyRate: w.HourlyRate,
			Experience: w.Experience,
			Stress:     w.Stress,
			Efficiency: w.Efficiency,
			Available:  available,
		})
	}
	if err := model.ValidateRoster(employees); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return employees, nil
}

// Directory serves roster snapshots with an explicit invalidation hook. The
// file is read lazily on first use and cached until Invalidate is called;
// there is no hidden cross-run mutation of the cached snapshot because
// callers receive a copy.
type Directory struct {
	mu     sync.RWMutex
	path   string
	cached []model.Employee
	loaded bool
}

// NewDirectory creates a Directory backed by a YAML file.
func NewDirectory(path string) *Directory {
	return &Directory{path: path}
}

// Snapshot returns a copy of the current roster.
func (d *Directory) Snapshot(ctx context.Context) ([]model.Employee, error) {
	d.mu.RLock()
	if d.loaded {
		defer d.mu.RUnlock()
		return copyRoster(d.cached), nil
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		employees, err := Load(d.path)
		if err != nil {
			return nil, err
		}
		d.cached = employees
		d.loaded = true
	}
	return copyRoster(d.cached), nil
}

// Invalidate drops the cached roster; the next Snapshot re-reads the file.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = false
	d.cached = nil
}

// StaticDirectory serves a fixed roster; used by tests and by callers that
// carry employees in the request.
type StaticDirectory struct {
	employees []model.Employee
}

// NewStaticDirectory validates and wraps a fixed roster.
func NewStaticDirectory(employees []model.Employee) (*StaticDirectory, error) {
	if err := model.ValidateRoster(employees); err != nil {
		return nil, err
	}
	return &StaticDirectory{employees: copyRoster(employees)}, nil
}

// Snapshot returns a copy of the fixed roster.
func (s *StaticDirectory) Snapshot(_ context.Context) ([]model.Employee, error) {
	return copyRoster(s.employees), nil
}

// Invalidate is a no-op for a static roster.
func (s *StaticDirectory) Invalidate() {}

func copyRoster(in []model.Employee) []model.Employee {
	out := make([]model.Employee, len(in))
	copy(out, in)
	return out
}

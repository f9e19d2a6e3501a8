// Package repository defines the allocation run store interface and errors.
package repository

import (
	"context"

	"github.com/okian/crewplan/internal/domain/model"
)

// Store provides read/write access to recent allocation results. Results are
// retained for the presentation layer; this is a bounded history, not
// persistence.
type Store interface {
	// Put stores a finished run result keyed by its run id, evicting the
	// oldest run when the store is full.
	Put(ctx context.Context, result model.AllocationResult) error

	// Get returns the result of a run. Returns ErrNotFound when unknown.
	Get(ctx context.Context, runID string) (model.AllocationResult, error)

	// Recent returns up to n results, newest first.
	Recent(ctx context.Context, n int) ([]model.AllocationResult, error)

	// Count returns the number of retained results.
	Count(ctx context.Context) int
}

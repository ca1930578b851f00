// Package memory provides an in-memory catalog, used by tests and as the
// reference for the catalog contract.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/interfaces"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/model"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/types"
	"github.com/mirrorkeep/mirrorkeep/pkg/repository"
)

type catalog struct {
	mu      sync.RWMutex
	records map[types.RepoID]*model.CatalogRecord
}

// New creates a new in-memory catalog
func New() interfaces.Catalog {
	return &catalog{
		records: make(map[types.RepoID]*model.CatalogRecord),
	}
}

func (x *catalog) Get(ctx context.Context, id types.RepoID) (*model.CatalogRecord, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	record, exists := x.records[id]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "repository is not cataloged",
			goerr.V("id", id),
		)
	}

	return copyRecord(record), nil
}

func (x *catalog) Put(ctx context.Context, record *model.CatalogRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, exists := x.records[record.ID]; exists {
		return goerr.Wrap(repository.ErrAlreadyExists, "repository is already cataloged",
			goerr.V("id", record.ID),
		)
	}
	x.records[record.ID] = copyRecord(record)

	return nil
}

func (x *catalog) Replace(ctx context.Context, record *model.CatalogRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, exists := x.records[record.ID]; !exists {
		return goerr.Wrap(repository.ErrNotFound, "repository is not cataloged",
			goerr.V("id", record.ID),
		)
	}
	x.records[record.ID] = copyRecord(record)

	return nil
}

func (x *catalog) IsNewerThan(ctx context.Context, id types.RepoID, candidate string) (bool, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	record, exists := x.records[id]
	if !exists {
		return false, nil
	}

	return storedBefore(record.UpdatedAt, candidate), nil
}

func (x *catalog) Close() error {
	return nil
}

// storedBefore compares two effective timestamps, calendar-aware when both
// parse as RFC 3339 and lexicographic otherwise.
func storedBefore(stored, candidate string) bool {
	storedAt, storedErr := time.Parse(time.RFC3339, stored)
	candidateAt, candidateErr := time.Parse(time.RFC3339, candidate)
	if storedErr != nil || candidateErr != nil {
		return stored < candidate
	}
	return storedAt.Before(candidateAt)
}

func copyRecord(record *model.CatalogRecord) *model.CatalogRecord {
	if record == nil {
		return nil
	}
	cpy := *record
	return &cpy
}

package interfaces

import (
	"context"

	"github.com/mirrorkeep/mirrorkeep/pkg/domain/model"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/types"
)

// Catalog is the persistent record of which remote repositories have been
// seen and their last-known effective timestamp. Implementations must make
// each mutating call atomic per record: of two concurrent Puts for the same
// ID exactly one succeeds and the other fails with repository.ErrAlreadyExists.
type Catalog interface {
	// Get returns the stored record, or repository.ErrNotFound.
	Get(ctx context.Context, id types.RepoID) (*model.CatalogRecord, error)

	// Put inserts a new record. Fails with repository.ErrAlreadyExists if
	// the ID is already present.
	Put(ctx context.Context, record *model.CatalogRecord) error

	// Replace overwrites the mutable fields of an existing record. Fails
	// with repository.ErrNotFound if absent.
	Replace(ctx context.Context, record *model.CatalogRecord) error

	// IsNewerThan reports whether the stored effective timestamp is
	// strictly earlier than candidate, using calendar comparison on
	// RFC 3339 values. Equal timestamps are not newer.
	IsNewerThan(ctx context.Context, id types.RepoID, candidate string) (bool, error)

	Close() error
}

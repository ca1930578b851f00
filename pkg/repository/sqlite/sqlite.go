// Package sqlite provides the persistent catalog backed by a local SQLite
// file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/interfaces"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/model"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/types"
	"github.com/mirrorkeep/mirrorkeep/pkg/repository"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

type Catalog struct {
	db *sql.DB
}

var _ interfaces.Catalog = (*Catalog)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS repositories (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	default_branch TEXT NOT NULL DEFAULT '',
	updated_at TEXT NOT NULL
);
`

// New opens (creating if needed) the catalog database at path and ensures
// its schema. The connection pool is capped at a single connection so that
// concurrent conflicting writes serialize inside SQLite rather than failing
// with a busy error.
func New(path string) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, goerr.Wrap(err, "failed to create catalog directory", goerr.V("dir", dir))
		}
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open catalog database", goerr.V("path", path))
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to initialize catalog schema", goerr.V("path", path))
	}

	return &Catalog{db: db}, nil
}

func (x *Catalog) Get(ctx context.Context, id types.RepoID) (*model.CatalogRecord, error) {
	record := &model.CatalogRecord{}

	err := x.db.QueryRowContext(ctx, `
		SELECT id, name, description, default_branch, updated_at
		FROM repositories
		WHERE id = ?
	`, int64(id)).Scan(&record.ID, &record.Name, &record.Description, &record.DefaultBranch, &record.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goerr.Wrap(repository.ErrNotFound, "repository is not cataloged",
			goerr.V("id", id),
		)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get catalog record", goerr.V("id", id))
	}

	return record, nil
}

func (x *Catalog) Put(ctx context.Context, record *model.CatalogRecord) error {
	// INSERT OR IGNORE keeps the duplicate check and the insert in one
	// statement: under concurrent Puts for the same ID exactly one row is
	// inserted and the losers observe zero affected rows.
	result, err := x.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO repositories
			(id, name, description, default_branch, updated_at)
			VALUES
			(?, ?, ?, ?, ?)
	`, int64(record.ID), record.Name, record.Description, string(record.DefaultBranch), record.UpdatedAt)
	if err != nil {
		return goerr.Wrap(err, "failed to insert catalog record", goerr.V("id", record.ID))
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to check catalog insert result", goerr.V("id", record.ID))
	}
	if inserted == 0 {
		return goerr.Wrap(repository.ErrAlreadyExists, "repository is already cataloged",
			goerr.V("id", record.ID),
		)
	}

	return nil
}

func (x *Catalog) Replace(ctx context.Context, record *model.CatalogRecord) error {
	result, err := x.db.ExecContext(ctx, `
		UPDATE repositories
		SET
			name = ?,
			description = ?,
			default_branch = ?,
			updated_at = ?
		WHERE id = ?
	`, record.Name, record.Description, string(record.DefaultBranch), record.UpdatedAt, int64(record.ID))
	if err != nil {
		return goerr.Wrap(err, "failed to update catalog record", goerr.V("id", record.ID))
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to check catalog update result", goerr.V("id", record.ID))
	}
	if updated == 0 {
		return goerr.Wrap(repository.ErrNotFound, "repository is not cataloged",
			goerr.V("id", record.ID),
		)
	}

	return nil
}

func (x *Catalog) IsNewerThan(ctx context.Context, id types.RepoID, candidate string) (bool, error) {
	// datetime() yields NULL on a value outside SQLite's recognized
	// formats; the CASE falls back to lexicographic comparison then, which
	// matches the accepted degradation of unparsable effective timestamps.
	var one int
	err := x.db.QueryRowContext(ctx, `
		SELECT 1
		FROM repositories
		WHERE id = ?
			AND CASE
				WHEN datetime(updated_at) IS NULL OR datetime(?) IS NULL
					THEN updated_at < ?
				ELSE datetime(updated_at) < datetime(?)
			END
	`, int64(id), candidate, candidate, candidate).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, goerr.Wrap(err, "failed to compare catalog timestamp", goerr.V("id", id))
	}

	return true, nil
}

func (x *Catalog) Close() error {
	return x.db.Close()
}

package model

import (
	"path/filepath"
	"time"

	"github.com/mirrorkeep/mirrorkeep/pkg/domain/types"
)

// RemoteRepo is one repository descriptor reported by the remote account
// listing. Timestamps are kept as the RFC 3339 strings the remote reports;
// parsing happens lazily where a comparison needs it.
type RemoteRepo struct {
	ID            types.RepoID
	Name          string
	Description   string
	Fork          bool
	CloneURL      string
	DefaultBranch types.BranchName
	Size          int64 // kilobytes, as reported by the remote
	UpdatedAt     string
	PushedAt      string
}

// SizeBytes converts the remote's kilobyte figure to bytes.
func (x *RemoteRepo) SizeBytes() int64 {
	return x.Size * 1000
}

// EffectiveTimestamp returns the later of UpdatedAt and PushedAt. A push
// touches the repository content while an update may only touch metadata,
// so the later of the two is the freshness signal for sync decisions.
// If one side is unparsable the other is used; if both are unparsable the
// UpdatedAt string is passed through unchanged and downstream comparison
// degrades to lexicographic ordering.
func (x *RemoteRepo) EffectiveTimestamp() string {
	updated, updatedErr := time.Parse(time.RFC3339, x.UpdatedAt)
	pushed, pushedErr := time.Parse(time.RFC3339, x.PushedAt)

	switch {
	case updatedErr == nil && pushedErr == nil:
		if pushed.After(updated) {
			return x.PushedAt
		}
		return x.UpdatedAt
	case updatedErr == nil:
		return x.UpdatedAt
	case pushedErr == nil:
		return x.PushedAt
	default:
		return x.UpdatedAt
	}
}

// MirrorPath returns the local mirror directory for the repository. Forks
// live under a fork/ subtree of the root so a fork and a non-fork sharing
// a name can never collide.
func (x *RemoteRepo) MirrorPath(root string) string {
	dir := x.Name + ".git"
	if x.Fork {
		return filepath.Join(root, "fork", dir)
	}
	return filepath.Join(root, dir)
}

// CatalogRecord is the persisted view of a repository the last time it was
// mirrored or refreshed. UpdatedAt holds the effective timestamp observed
// at that point.
type CatalogRecord struct {
	ID            types.RepoID
	Name          string
	Description   string
	DefaultBranch types.BranchName
	UpdatedAt     string
}

// NewCatalogRecord derives the record to persist after syncing repo.
func NewCatalogRecord(repo *RemoteRepo) *CatalogRecord {
	return &CatalogRecord{
		ID:            repo.ID,
		Name:          repo.Name,
		Description:   repo.Description,
		DefaultBranch: repo.DefaultBranch,
		UpdatedAt:     repo.EffectiveTimestamp(),
	}
}

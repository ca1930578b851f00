package interfaces

import (
	"context"

	"github.com/mirrorkeep/mirrorkeep/pkg/domain/model"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/types"
)

// RepoLister retrieves all repository descriptors of a remote account.
type RepoLister interface {
	ListAccountRepos(ctx context.Context, account string) ([]*model.RemoteRepo, error)
}

// GitMirror owns the git-level operations on local bare mirrors.
type GitMirror interface {
	// Mirror initializes a bare repository at path, writes its description
	// file, configures a full mirroring remote for url and fetches all
	// refs. When defaultBranch differs from the init default the mirror's
	// HEAD is switched afterwards. The directory may be left partially
	// initialized on failure.
	Mirror(ctx context.Context, url, path, description string, defaultBranch types.BranchName) error

	// Update re-fetches all refs of an existing mirror, pruning refs
	// deleted on the remote and auto-following tags.
	Update(ctx context.Context, path string) error

	// SetDefaultBranch rewrites the mirror's symbolic HEAD.
	SetDefaultBranch(ctx context.Context, path string, branch types.BranchName) error
}

// Package gitops implements the git-level mirror operations on local bare
// repositories.
package gitops

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/interfaces"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/types"
)

const remoteName = "origin"

// mirrorRefSpec maps every remote ref onto the same local name, so the
// mirror carries branches, tags and notes alike.
var mirrorRefSpec = config.RefSpec("+refs/*:refs/*")

type Client struct{}

var _ interfaces.GitMirror = (*Client)(nil)

func New() *Client {
	return &Client{}
}

// Mirror works like `git clone --mirror URL path`, plus the description
// file consumed by the downstream repository browser.
func (x *Client) Mirror(ctx context.Context, url, path, description string, defaultBranch types.BranchName) error {
	repo, err := git.PlainInit(path, true)
	if err != nil {
		return goerr.Wrap(err, "failed to initialize bare mirror",
			goerr.T(types.TagMirrorCreate), goerr.V("path", path),
		)
	}

	if err := writeDescription(path, description); err != nil {
		return goerr.Wrap(err, "failed to write mirror description",
			goerr.T(types.TagMirrorCreate), goerr.V("path", path),
		)
	}

	remote, err := repo.CreateRemote(&config.RemoteConfig{
		Name:  remoteName,
		URLs:  []string{url},
		Fetch: []config.RefSpec{mirrorRefSpec},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to add mirror remote",
			goerr.T(types.TagRemoteAdd), goerr.V("url", url),
		)
	}

	if err := x.markRemoteAsMirror(repo); err != nil {
		return err
	}

	if err := remote.FetchContext(ctx, &git.FetchOptions{
		RefSpecs: []config.RefSpec{mirrorRefSpec},
		Tags:     git.AllTags,
		Force:    true,
	}); err != nil && !isBenignFetchError(err) {
		return goerr.Wrap(err, "failed initial mirror fetch",
			goerr.T(types.TagMirrorFetch), goerr.V("url", url), goerr.V("path", path),
		)
	}

	if defaultBranch != "" && defaultBranch != types.DefaultBranchMaster {
		if err := setHead(repo, defaultBranch); err != nil {
			return err
		}
	}

	return nil
}

// Update works like `git remote update --prune` on every configured remote.
func (x *Client) Update(ctx context.Context, path string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return goerr.Wrap(err, "failed to open mirror",
			goerr.T(types.TagUpdateOpen), goerr.V("path", path),
		)
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return goerr.Wrap(err, "failed to enumerate mirror remotes",
			goerr.T(types.TagUpdateOpen), goerr.V("path", path),
		)
	}

	for _, remote := range remotes {
		if err := remote.FetchContext(ctx, &git.FetchOptions{
			RefSpecs: []config.RefSpec{mirrorRefSpec},
			Tags:     git.AllTags,
			Prune:    true,
			Force:    true,
		}); err != nil && !isBenignFetchError(err) {
			return goerr.Wrap(err, "failed to fetch mirror updates",
				goerr.T(types.TagUpdateFetch),
				goerr.V("path", path),
				goerr.V("remote", remote.Config().Name),
			)
		}
	}

	return nil
}

// SetDefaultBranch rewrites the mirror's symbolic HEAD to the given branch.
func (x *Client) SetDefaultBranch(ctx context.Context, path string, branch types.BranchName) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return goerr.Wrap(err, "failed to open mirror",
			goerr.T(types.TagBranchSwitch), goerr.V("path", path),
		)
	}
	return setHead(repo, branch)
}

// markRemoteAsMirror sets remote.origin.mirror so that a plain `git push`
// from the mirror behaves like --mirror, matching what clone --mirror
// writes.
func (x *Client) markRemoteAsMirror(repo *git.Repository) error {
	cfg, err := repo.Config()
	if err != nil {
		return goerr.Wrap(err, "failed to read mirror config", goerr.T(types.TagRemoteAdd))
	}
	cfg.Raw.Section("remote").Subsection(remoteName).SetOption("mirror", "true")
	if err := repo.SetConfig(cfg); err != nil {
		return goerr.Wrap(err, "failed to write mirror config", goerr.T(types.TagRemoteAdd))
	}
	return nil
}

func setHead(repo *git.Repository, branch types.BranchName) error {
	ref := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(string(branch)))
	if err := repo.Storer.SetReference(ref); err != nil {
		return goerr.Wrap(err, "failed to switch default branch",
			goerr.T(types.TagBranchSwitch), goerr.V("branch", branch),
		)
	}
	return nil
}

// isBenignFetchError filters fetch results that are not failures: an
// already up to date mirror and an empty remote repository.
func isBenignFetchError(err error) bool {
	return errors.Is(err, git.NoErrAlreadyUpToDate) ||
		errors.Is(err, transport.ErrEmptyRemoteRepository)
}

func writeDescription(path, description string) error {
	content := description
	if content != "" {
		content += "\n"
	}
	return os.WriteFile(filepath.Join(path, "description"), []byte(content), 0o644)
}

// DescriptionPath returns the description file location inside a mirror.
func DescriptionPath(mirrorPath string) string {
	return filepath.Join(mirrorPath, "description")
}

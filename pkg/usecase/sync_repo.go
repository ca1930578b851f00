package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/model"
	"github.com/mirrorkeep/mirrorkeep/pkg/repository"
	"github.com/mirrorkeep/mirrorkeep/pkg/utils/logging"
)

// SyncRepo runs the per-repository decision pipeline: size filter, catalog
// lookup, then either a first-time mirror, a refresh, or nothing. It never
// returns an error; failures are folded into the outcome so the caller can
// aggregate them without aborting sibling repositories.
func (x *UseCase) SyncRepo(ctx context.Context, repo *model.RemoteRepo, input *model.SyncAccountInput) model.SyncOutcome {
	// The size filter runs before any catalog or filesystem access so
	// oversize repositories cost nothing.
	if input.MaxRepoSize > 0 && uint64(repo.SizeBytes()) > input.MaxRepoSize {
		logging.From(ctx).Debug("Skipping oversize repository",
			slog.String("repo", repo.Name),
			slog.Int64("size_kb", repo.Size),
		)
		return model.SyncOutcome{
			Repo:       repo.Name,
			Status:     model.SyncStatusSkipped,
			SkipReason: model.SkipReasonOversize,
		}
	}

	stored, err := x.clients.Catalog().Get(ctx, repo.ID)
	switch {
	case err == nil:
		return x.refreshRepo(ctx, repo, stored, input)

	case errors.Is(err, repository.ErrNotFound):
		return x.createRepo(ctx, repo, input)

	default:
		return failed(repo, goerr.Wrap(err, "failed catalog lookup", goerr.V("repo", repo.Name)))
	}
}

// createRepo mirrors a repository seen for the first time and catalogs it.
func (x *UseCase) createRepo(ctx context.Context, repo *model.RemoteRepo, input *model.SyncAccountInput) model.SyncOutcome {
	path := repo.MirrorPath(input.MirrorRoot)
	logging.From(ctx).Info("Mirroring new repository",
		slog.String("repo", repo.Name),
		slog.String("path", path),
	)

	if err := x.clients.GitMirror().Mirror(ctx, repo.CloneURL, path, repo.Description, repo.DefaultBranch); err != nil {
		return failed(repo, goerr.Wrap(err, "failed to mirror repository", goerr.V("repo", repo.Name)))
	}

	if input.CgitrcPath != "" {
		if err := copyCgitrc(input.CgitrcPath, path); err != nil {
			return failed(repo, goerr.Wrap(err, "failed to install cgitrc", goerr.V("repo", repo.Name)))
		}
	}

	if err := projectTimestamp(path, repo.DefaultBranch, repo.EffectiveTimestamp()); err != nil {
		return failed(repo, goerr.Wrap(err, "failed to project mirror timestamp", goerr.V("repo", repo.Name)))
	}

	if err := x.clients.Catalog().Put(ctx, model.NewCatalogRecord(repo)); err != nil {
		// A concurrent sync of the same repository won the insert; its
		// mirror is authoritative and this attempt stands down.
		if errors.Is(err, repository.ErrAlreadyExists) {
			logging.From(ctx).Info("Repository cataloged by concurrent sync",
				slog.String("repo", repo.Name),
			)
			return model.SyncOutcome{
				Repo:       repo.Name,
				Status:     model.SyncStatusSkipped,
				SkipReason: model.SkipReasonRace,
			}
		}
		return failed(repo, goerr.Wrap(err, "failed to catalog repository", goerr.V("repo", repo.Name)))
	}

	return model.SyncOutcome{Repo: repo.Name, Status: model.SyncStatusCreated}
}

// refreshRepo re-fetches a known repository when the remote moved on, and
// reconciles the local metadata the fetch itself does not cover.
func (x *UseCase) refreshRepo(ctx context.Context, repo *model.RemoteRepo, stored *model.CatalogRecord, input *model.SyncAccountInput) model.SyncOutcome {
	newer, err := x.clients.Catalog().IsNewerThan(ctx, repo.ID, repo.EffectiveTimestamp())
	if err != nil {
		return failed(repo, goerr.Wrap(err, "failed catalog freshness check", goerr.V("repo", repo.Name)))
	}
	if !newer {
		return model.SyncOutcome{Repo: repo.Name, Status: model.SyncStatusUnchanged}
	}

	path := repo.MirrorPath(input.MirrorRoot)
	logging.From(ctx).Info("Refreshing repository",
		slog.String("repo", repo.Name),
		slog.String("path", path),
	)

	if err := x.clients.GitMirror().Update(ctx, path); err != nil {
		return failed(repo, goerr.Wrap(err, "failed to update mirror", goerr.V("repo", repo.Name)))
	}

	if stored.Description != repo.Description {
		if err := reconcileDescription(path, repo.Description); err != nil {
			return failed(repo, goerr.Wrap(err, "failed to reconcile description", goerr.V("repo", repo.Name)))
		}
	}

	if stored.DefaultBranch != repo.DefaultBranch {
		// Git-level switch first, then the sidecar; a crash in between
		// leaves the cgitrc one sync behind, which the next refresh of
		// the repository repairs.
		if err := x.clients.GitMirror().SetDefaultBranch(ctx, path, repo.DefaultBranch); err != nil {
			return failed(repo, goerr.Wrap(err, "failed to switch default branch", goerr.V("repo", repo.Name)))
		}
		if err := setCgitrcDefaultBranch(path, repo.DefaultBranch); err != nil {
			return failed(repo, goerr.Wrap(err, "failed to update cgitrc default branch", goerr.V("repo", repo.Name)))
		}
	}

	if err := projectTimestamp(path, repo.DefaultBranch, repo.EffectiveTimestamp()); err != nil {
		return failed(repo, goerr.Wrap(err, "failed to project mirror timestamp", goerr.V("repo", repo.Name)))
	}

	if err := x.clients.Catalog().Replace(ctx, model.NewCatalogRecord(repo)); err != nil {
		return failed(repo, goerr.Wrap(err, "failed to update catalog record", goerr.V("repo", repo.Name)))
	}

	return model.SyncOutcome{Repo: repo.Name, Status: model.SyncStatusRefreshed}
}

func failed(repo *model.RemoteRepo, err error) model.SyncOutcome {
	return model.SyncOutcome{
		Repo:   repo.Name,
		Status: model.SyncStatusFailed,
		Err:    err,
	}
}

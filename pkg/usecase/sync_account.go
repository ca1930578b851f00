package usecase

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/model"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/types"
	"github.com/mirrorkeep/mirrorkeep/pkg/utils/errutil"
	"github.com/mirrorkeep/mirrorkeep/pkg/utils/logging"
)

// SyncAccount mirrors every repository of the account into the mirror root.
// Listing or catalog configuration problems abort the run before any worker
// starts; per-repository failures are isolated, reported in the returned
// report, and surfaced together as a single error at the end so every
// broken repository can be fixed in one pass.
func (x *UseCase) SyncAccount(ctx context.Context, input *model.SyncAccountInput) (*model.SyncReport, error) {
	if x.clients.Catalog() == nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "catalog is not configured")
	}
	if x.clients.RepoLister() == nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "repository lister is not configured")
	}

	logger := logging.From(ctx)

	repos, err := x.clients.RepoLister().ListAccountRepos(ctx, input.Account)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list account repositories",
			goerr.V("account", input.Account),
		)
	}

	concurrency := input.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	logger.Info("Starting account synchronization",
		slog.String("account", input.Account),
		slog.String("mirror_root", input.MirrorRoot),
		slog.Int("repos", len(repos)),
		slog.Int("concurrency", concurrency),
	)

	// Each repository is an independent unit of work: the catalog is the
	// only shared resource and serializes conflicting writes itself, and
	// mirror paths are a pure function of name and fork status, so no two
	// workers ever touch the same directory.
	queue := make(chan *model.RemoteRepo)
	outcomes := make(chan model.SyncOutcome)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for repo := range queue {
				outcomes <- x.SyncRepo(ctx, repo, input)
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, repo := range repos {
			select {
			case queue <- repo:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	report := &model.SyncReport{}
	for outcome := range outcomes {
		if outcome.Status == model.SyncStatusFailed {
			errutil.HandleError(ctx, "repository synchronization failed", outcome.Err)
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	logger.Info("Finished account synchronization",
		slog.String("account", input.Account),
		slog.Int("created", report.Count(model.SyncStatusCreated)),
		slog.Int("refreshed", report.Count(model.SyncStatusRefreshed)),
		slog.Int("unchanged", report.Count(model.SyncStatusUnchanged)),
		slog.Int("skipped", report.Count(model.SyncStatusSkipped)),
		slog.Int("failed", report.Count(model.SyncStatusFailed)),
	)

	if failures := report.Failures(); len(failures) > 0 {
		return report, goerr.New("some repositories failed to synchronize",
			goerr.V("account", input.Account),
			goerr.V("failed_count", len(failures)),
		)
	}

	return report, nil
}

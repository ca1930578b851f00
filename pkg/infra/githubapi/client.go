// Package githubapi lists the repositories of a GitHub account through the
// REST API.
package githubapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/interfaces"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/model"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/types"
	"github.com/mirrorkeep/mirrorkeep/pkg/utils/logging"
)

type Client struct {
	gh *github.Client
}

var _ interfaces.RepoLister = (*Client)(nil)

// New creates a lister. An empty token falls back to unauthenticated access,
// which is enough for public repositories but rate-limited harder.
func New(token types.GitHubToken) *Client {
	if token == "" {
		return &Client{gh: github.NewClient(nil)}
	}
	return &Client{gh: github.NewTokenClient(context.Background(), string(token))}
}

// ListAccountRepos fetches every repository of the account, 100 per page,
// most recently updated first.
func (x *Client) ListAccountRepos(ctx context.Context, account string) ([]*model.RemoteRepo, error) {
	var allRepos []*model.RemoteRepo
	opts := &github.RepositoryListOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		page, resp, err := x.gh.Repositories.List(ctx, account, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list account repositories",
				goerr.V("account", account),
			)
		}

		for _, repo := range page {
			allRepos = append(allRepos, &model.RemoteRepo{
				ID:            types.RepoID(repo.GetID()),
				Name:          repo.GetName(),
				Description:   repo.GetDescription(),
				Fork:          repo.GetFork(),
				CloneURL:      repo.GetCloneURL(),
				DefaultBranch: types.BranchName(repo.GetDefaultBranch()),
				Size:          int64(repo.GetSize()),
				UpdatedAt:     formatTimestamp(repo.GetUpdatedAt()),
				PushedAt:      formatTimestamp(repo.GetPushedAt()),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logging.From(ctx).Info("Listed account repositories",
		slog.String("account", account),
		slog.Int("count", len(allRepos)),
	)

	return allRepos, nil
}

func formatTimestamp(ts github.Timestamp) string {
	if ts.Time.IsZero() {
		return ""
	}
	return ts.Time.UTC().Format(time.RFC3339)
}

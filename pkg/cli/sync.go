package cli

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/mirrorkeep/mirrorkeep/pkg/cli/config"
	"github.com/mirrorkeep/mirrorkeep/pkg/domain/model"
	"github.com/mirrorkeep/mirrorkeep/pkg/infra"
	"github.com/mirrorkeep/mirrorkeep/pkg/infra/gitops"
	"github.com/mirrorkeep/mirrorkeep/pkg/usecase"
	"github.com/mirrorkeep/mirrorkeep/pkg/utils/logging"
	"github.com/mirrorkeep/mirrorkeep/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func syncCommand() *cli.Command {
	var (
		catalog     config.Catalog
		github      config.GitHub
		sentryCfg   config.Sentry
		cgitrc      string
		sizeLimit   string
		concurrency int64
	)

	return &cli.Command{
		Name:      "sync",
		Aliases:   []string{"s"},
		Usage:     "Mirror all repositories of a GitHub account into a local directory",
		ArgsUsage: "<account> <mirror-root>",
		Flags: slice.Flatten([]cli.Flag{
			&cli.StringFlag{
				Name:        "cgitrc",
				Usage:       "Path to a cgitrc template installed into newly created mirrors",
				Sources:     cli.EnvVars("MIRRORKEEP_CGITRC"),
				Destination: &cgitrc,
			},
			&cli.StringFlag{
				Name:        "skip-larger-than",
				Usage:       "Skip repositories larger than this size (e.g. 250MB)",
				Sources:     cli.EnvVars("MIRRORKEEP_SKIP_LARGER_THAN"),
				Destination: &sizeLimit,
			},
			&cli.Int64Flag{
				Name:        "concurrency",
				Aliases:     []string{"j"},
				Usage:       "Number of repositories synchronized in parallel (0 means one per CPU)",
				Sources:     cli.EnvVars("MIRRORKEEP_CONCURRENCY"),
				Destination: &concurrency,
			},
		}, catalog.Flags(), github.Flags(), sentryCfg.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 2 {
				return goerr.New("expected exactly two arguments: <account> <mirror-root>")
			}
			account := c.Args().Get(0)
			mirrorRoot := c.Args().Get(1)

			if err := sentryCfg.Configure(ctx); err != nil {
				return err
			}

			var maxRepoSize uint64
			if sizeLimit != "" {
				parsed, err := humanize.ParseBytes(sizeLimit)
				if err != nil {
					return goerr.Wrap(err, "failed to parse size limit", goerr.V("value", sizeLimit))
				}
				maxRepoSize = parsed
			}

			logging.From(ctx).Info("Starting sync",
				slog.String("account", account),
				slog.String("mirror_root", mirrorRoot),
				slog.Any("catalog", catalog),
				slog.Any("github", github),
				slog.String("cgitrc", cgitrc),
				slog.Uint64("max_repo_size", maxRepoSize),
				slog.Int64("concurrency", concurrency),
			)

			catalogRepo, err := catalog.New()
			if err != nil {
				return goerr.Wrap(err, "failed to open catalog")
			}
			defer safe.Close(catalogRepo)

			clients := infra.New(
				infra.WithCatalog(catalogRepo),
				infra.WithRepoLister(github.New()),
				infra.WithGitMirror(gitops.New()),
			)

			uc := usecase.New(clients)
			if _, err := uc.SyncAccount(ctx, &model.SyncAccountInput{
				Account:     account,
				MirrorRoot:  mirrorRoot,
				CgitrcPath:  cgitrc,
				MaxRepoSize: maxRepoSize,
				Concurrency: int(concurrency),
			}); err != nil {
				return goerr.Wrap(err, "failed to synchronize account")
			}

			return nil
		},
	}
}

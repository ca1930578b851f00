package config

import (
	"log/slog"

	"github.com/mirrorkeep/mirrorkeep/pkg/domain/types"
	"github.com/mirrorkeep/mirrorkeep/pkg/infra/githubapi"
	"github.com/urfave/cli/v3"
)

type GitHub struct {
	token types.GitHubToken `masq:"secret"`
}

func (x *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub API token (anonymous access if not set)",
			Category:    "GitHub",
			Destination: (*string)(&x.token),
			Sources:     cli.EnvVars("MIRRORKEEP_GITHUB_TOKEN"),
		},
	}
}

func (x GitHub) New() *githubapi.Client {
	return githubapi.New(x.token)
}

func (x GitHub) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("Token.len", len(x.token)),
	)
}

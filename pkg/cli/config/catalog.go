package config

import (
	"log/slog"

	"github.com/mirrorkeep/mirrorkeep/pkg/repository/sqlite"
	"github.com/urfave/cli/v3"
)

type Catalog struct {
	path string
}

func (x *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Aliases:     []string{"d"},
			Usage:       "Path to the catalog database file",
			Category:    "Catalog",
			Destination: &x.path,
			Sources:     cli.EnvVars("MIRRORKEEP_CATALOG"),
			Required:    true,
		},
	}
}

func (x *Catalog) New() (*sqlite.Catalog, error) {
	return sqlite.New(x.path)
}

func (x Catalog) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("Path", x.path),
	)
}

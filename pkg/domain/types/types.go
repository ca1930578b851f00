package types

import "log/slog"

type (
	RepoID      int64
	BranchName  string
	GitHubToken string
)

// AppVersion is set via ldflags at build time.
var AppVersion = "dev"

// DefaultBranchMaster is the branch a freshly initialized bare repository
// points its HEAD at. Mirrors whose remote default branch differs need an
// explicit HEAD switch after the initial fetch.
const DefaultBranchMaster BranchName = "master"

func (x GitHubToken) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x GitHubToken) String() string {
	return "***********"
}

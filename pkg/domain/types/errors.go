package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidOption = goerr.New("invalid option")
)

// Tags classifying git-level failures by the step that failed. The mirror
// directory may be left partially populated when a create-side step fails.
var (
	TagMirrorCreate = goerr.NewTag("mirror_create")
	TagRemoteAdd    = goerr.NewTag("remote_add")
	TagMirrorFetch  = goerr.NewTag("mirror_fetch")
	TagBranchSwitch = goerr.NewTag("branch_switch")
	TagUpdateOpen   = goerr.NewTag("update_open")
	TagUpdateFetch  = goerr.NewTag("update_fetch")
)

package model

type SyncStatus string

const (
	SyncStatusCreated   SyncStatus = "created"
	SyncStatusRefreshed SyncStatus = "refreshed"
	SyncStatusUnchanged SyncStatus = "unchanged"
	SyncStatusSkipped   SyncStatus = "skipped"
	SyncStatusFailed    SyncStatus = "failed"
)

const (
	SkipReasonOversize = "oversize"
	SkipReasonRace     = "race"
)

// SyncOutcome is the per-repository result of one synchronization pass.
// It is reported, never persisted.
type SyncOutcome struct {
	Repo       string
	Status     SyncStatus
	SkipReason string
	Err        error
}

// SyncAccountInput carries the configuration of one synchronization run.
type SyncAccountInput struct {
	Account     string
	MirrorRoot  string
	CgitrcPath  string // optional template copied into newly created mirrors
	MaxRepoSize uint64 // bytes; 0 disables the size filter
	Concurrency int    // 0 means one worker per CPU
}

// SyncReport aggregates the outcomes of one run.
type SyncReport struct {
	Outcomes []SyncOutcome
}

func (x *SyncReport) Count(status SyncStatus) int {
	var n int
	for _, outcome := range x.Outcomes {
		if outcome.Status == status {
			n++
		}
	}
	return n
}

// Failures returns the outcomes of repositories whose sync failed.
func (x *SyncReport) Failures() []SyncOutcome {
	var failed []SyncOutcome
	for _, outcome := range x.Outcomes {
		if outcome.Status == SyncStatusFailed {
			failed = append(failed, outcome)
		}
	}
	return failed
}

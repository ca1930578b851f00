package usecase

// Export internal helpers for testing
var (
	ReconcileDescription   = reconcileDescription
	ProjectTimestamp       = projectTimestamp
	CopyCgitrc             = copyCgitrc
	SetCgitrcDefaultBranch = setCgitrcDefaultBranch
)

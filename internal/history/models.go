package history

import "time"

// Run is one recorded cleanup execution.
type Run struct {
	ID              int64
	UUID            string
	StartedAt       time.Time
	FinishedAt      time.Time
	DryRun          bool
	GroupKey        string
	Groups          int
	DuplicatesFound int
	FilesDeleted    int
	FoldersDeleted  int
	BytesReclaimed  int64
	Failures        int
	Report          string
}

// Action is one deletion performed (or simulated) during a run.
type Action struct {
	ID         int64
	RunID      int64
	Kind       string
	Path       string
	ProviderID string
	Title      string
	Bytes      int64
}

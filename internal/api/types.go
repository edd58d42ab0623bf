// Package api defines the JSON payloads exchanged over the winnowd HTTP API.
package api

import "time"

// StatusResponse reports daemon runtime information.
type StatusResponse struct {
	Running       bool     `json:"running"`
	PID           int      `json:"pid"`
	HistoryDBPath string   `json:"history_db_path"`
	LockFilePath  string   `json:"lock_file_path"`
	ProviderKey   string   `json:"provider_key"`
	LastRun       *RunView `json:"last_run,omitempty"`
}

// CleanupResponse is returned after a triggered cleanup cycle finishes.
type CleanupResponse struct {
	RunID          string `json:"run_id"`
	DryRun         bool   `json:"dry_run"`
	Groups         int    `json:"groups"`
	Duplicates     int    `json:"duplicates"`
	FilesDeleted   int    `json:"files_deleted"`
	FoldersDeleted int    `json:"folders_deleted"`
	BytesReclaimed int64  `json:"bytes_reclaimed"`
	Failures       int    `json:"failures"`
	Report         string `json:"report"`
}

// RunView is one historical cleanup run.
type RunView struct {
	ID             int64     `json:"id"`
	RunID          string    `json:"run_id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	DryRun         bool      `json:"dry_run"`
	GroupKey       string    `json:"group_key"`
	Groups         int       `json:"groups"`
	Duplicates     int       `json:"duplicates"`
	FilesDeleted   int       `json:"files_deleted"`
	FoldersDeleted int       `json:"folders_deleted"`
	BytesReclaimed int64     `json:"bytes_reclaimed"`
	Failures       int       `json:"failures"`
}

// ActionView is one deletion belonging to a run.
type ActionView struct {
	Kind       string `json:"kind"`
	Path       string `json:"path"`
	ProviderID string `json:"provider_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Bytes      int64  `json:"bytes"`
}

// RunListResponse wraps a page of runs.
type RunListResponse struct {
	Runs []RunView `json:"runs"`
}

// RunDetailResponse is one run with its recorded actions and report text.
type RunDetailResponse struct {
	Run     RunView      `json:"run"`
	Actions []ActionView `json:"actions"`
	Report  string       `json:"report"`
}

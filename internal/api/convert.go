package api

import (
	"winnow/internal/cleanup"
	"winnow/internal/history"
)

// FromRun maps a stored run to its API view.
func FromRun(run history.Run) RunView {
	return RunView{
		ID:             run.ID,
		RunID:          run.UUID,
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		DryRun:         run.DryRun,
		GroupKey:       run.GroupKey,
		Groups:         run.Groups,
		Duplicates:     run.DuplicatesFound,
		FilesDeleted:   run.FilesDeleted,
		FoldersDeleted: run.FoldersDeleted,
		BytesReclaimed: run.BytesReclaimed,
		Failures:       run.Failures,
	}
}

// FromRuns maps stored runs preserving order.
func FromRuns(runs []history.Run) []RunView {
	if len(runs) == 0 {
		return nil
	}
	out := make([]RunView, 0, len(runs))
	for _, run := range runs {
		out = append(out, FromRun(run))
	}
	return out
}

// FromActions maps stored actions preserving order.
func FromActions(actions []history.Action) []ActionView {
	if len(actions) == 0 {
		return nil
	}
	out := make([]ActionView, 0, len(actions))
	for _, action := range actions {
		out = append(out, ActionView{
			Kind:       action.Kind,
			Path:       action.Path,
			ProviderID: action.ProviderID,
			Title:      action.Title,
			Bytes:      action.Bytes,
		})
	}
	return out
}

// FromCleanup maps a finished cycle to its trigger response.
func FromCleanup(runID string, report *cleanup.Report) CleanupResponse {
	return CleanupResponse{
		RunID:          runID,
		DryRun:         report.DryRun,
		Groups:         report.Groups,
		Duplicates:     report.Duplicates,
		FilesDeleted:   report.FilesDeleted,
		FoldersDeleted: report.FoldersDeleted,
		BytesReclaimed: report.BytesReclaimed,
		Failures:       report.Failures,
		Report:         report.Text(),
	}
}

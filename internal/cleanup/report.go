package cleanup

import "strings"

// ActionKind distinguishes report entries.
type ActionKind string

const (
	ActionFile   ActionKind = "file"
	ActionFolder ActionKind = "folder"
)

// Action records one deletion the executor performed (or would perform in
// dry-run mode).
type Action struct {
	Kind       ActionKind
	Path       string
	ProviderID string
	Title      string
	Bytes      int64
}

// Report summarizes a cleanup run.
type Report struct {
	DryRun         bool
	GroupKey       string
	Groups         int
	Duplicates     int
	FilesDeleted   int
	FoldersDeleted int
	BytesReclaimed int64
	Failures       int
	Actions        []Action

	lines []string
}

func (r *Report) addLine(line string) {
	r.lines = append(r.lines, line)
}

// Text renders the line-oriented report, one line per deletion action.
func (r *Report) Text() string {
	if len(r.lines) == 0 {
		return ""
	}
	return strings.Join(r.lines, "\n") + "\n"
}

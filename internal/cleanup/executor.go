package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"winnow/internal/dedupe"
	"winnow/internal/fileutil"
	"winnow/internal/logging"
)

// DefaultDirThreshold is the directory size below which a duplicate's parent
// directory is pruned after the file itself is gone. Directories totalling
// exactly this many bytes are kept.
const DefaultDirThreshold int64 = 20 * 1024 * 1024

// Refresher triggers a media server library rescan after files change on disk.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Options configures an Executor.
type Options struct {
	DryRun       bool
	GroupKey     string
	DirThreshold int64
	Refresher    Refresher
	Logger       *slog.Logger
}

// Executor deletes the discarded records of resolved duplicate groups.
type Executor struct {
	mu   sync.Mutex
	opts Options
}

// NewExecutor builds an executor. A zero or negative threshold falls back to
// DefaultDirThreshold; a nil logger discards output.
func NewExecutor(opts Options) *Executor {
	opts.GroupKey = dedupe.CanonicalProviderKey(opts.GroupKey)
	if opts.DirThreshold <= 0 {
		opts.DirThreshold = DefaultDirThreshold
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Executor{opts: opts}
}

// Run deletes every discard record in the given groups and returns the
// report. Runs are serialized: concurrent callers block until the previous
// run finishes. Per-record failures are logged and skipped.
func (e *Executor) Run(ctx context.Context, groups []dedupe.Group) *Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := logging.WithContext(ctx, e.opts.Logger)
	report := &Report{
		DryRun:   e.opts.DryRun,
		GroupKey: e.opts.GroupKey,
		Groups:   len(groups),
	}
	state := newDeletions()

	for _, group := range groups {
		report.Duplicates += len(group.Discard)
		for _, ranked := range group.Discard {
			if err := ctx.Err(); err != nil {
				log.Warn("cleanup interrupted", logging.Error(err))
				return report
			}
			e.removeRecord(log, report, state, group.Key, ranked)
		}
	}

	if !e.opts.DryRun && e.opts.Refresher != nil {
		if err := e.opts.Refresher.Refresh(ctx); err != nil {
			log.Warn("library refresh failed", logging.Error(err))
		} else {
			log.Info("library refresh requested")
		}
	}

	return report
}

func (e *Executor) removeRecord(log *slog.Logger, report *Report, state *deletions, providerID string, ranked dedupe.Ranked) {
	path := ranked.Record.Path
	if e.opts.DryRun && state.gone(path) {
		// A live run would have lost this file to an earlier folder prune.
		log.Warn("skipping duplicate: file not accessible",
			logging.String(logging.FieldPath, path),
			logging.Error(os.ErrNotExist))
		report.Failures++
		return
	}
	size := fileutil.FileSize(path)

	if _, err := os.Lstat(path); err != nil {
		log.Warn("skipping duplicate: file not accessible",
			logging.String(logging.FieldPath, path),
			logging.Error(err))
		report.Failures++
		return
	}

	if !e.opts.DryRun {
		if err := os.Remove(path); err != nil {
			log.Warn("failed to delete file",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
			report.Failures++
			return
		}
	}

	state.removeFile(path, size)
	report.FilesDeleted++
	report.BytesReclaimed += size
	report.Actions = append(report.Actions, Action{
		Kind:       ActionFile,
		Path:       path,
		ProviderID: providerID,
		Title:      ranked.Record.Title,
		Bytes:      size,
	})
	report.addLine(fmt.Sprintf("File deleted %s (%s=%s)", path, e.opts.GroupKey, providerID))
	log.Info("file deleted",
		logging.String(logging.FieldPath, path),
		logging.String(logging.FieldGroupKey, providerID),
		logging.Int64("bytes", size),
		logging.Bool(logging.FieldDryRun, e.opts.DryRun))

	e.pruneDirectory(log, report, state, path)
}

// pruneDirectory removes the file's parent directory when its remaining
// recursive size is strictly under the threshold. The total is measured after
// the file is gone; in dry-run the bytes already deleted this run are
// subtracted so the reports stay identical when discards share a directory.
func (e *Executor) pruneDirectory(log *slog.Logger, report *Report, state *deletions, filePath string) {
	dir := filepath.Dir(filePath)
	if dir == "" || dir == "." || dir == string(filepath.Separator) {
		return
	}

	remaining, err := fileutil.DirSize(dir)
	if err != nil {
		log.Warn("failed to size directory",
			logging.String(logging.FieldPath, dir),
			logging.Error(err))
		return
	}
	if e.opts.DryRun {
		remaining -= state.bytesUnder(dir)
	}
	if remaining >= e.opts.DirThreshold {
		return
	}

	if !e.opts.DryRun {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("failed to delete folder",
				logging.String(logging.FieldPath, dir),
				logging.Error(err))
			report.Failures++
			return
		}
	}

	state.removeDir(dir, remaining)
	report.FoldersDeleted++
	report.BytesReclaimed += remaining
	report.Actions = append(report.Actions, Action{
		Kind:  ActionFolder,
		Path:  dir,
		Bytes: remaining,
	})
	report.addLine(fmt.Sprintf("Folder deleted %s.", dir))
	log.Info("folder deleted",
		logging.String(logging.FieldPath, dir),
		logging.Int64("bytes", remaining),
		logging.Bool(logging.FieldDryRun, e.opts.DryRun))
}

// deletions records what a run has removed so far. A live run mutates the
// filesystem as it goes; a dry run consults this overlay instead so both
// walks observe the same state.
type deletions struct {
	files map[string]int64 // removed file -> size
	dirs  map[string]int64 // recursively removed dir -> bytes it still held
}

func newDeletions() *deletions {
	return &deletions{
		files: make(map[string]int64),
		dirs:  make(map[string]int64),
	}
}

func (d *deletions) removeFile(path string, size int64) {
	d.files[path] = size
}

func (d *deletions) removeDir(dir string, remaining int64) {
	d.dirs[dir] = remaining
}

// gone reports whether the path was removed this run, either directly or as
// part of a removed directory.
func (d *deletions) gone(path string) bool {
	if _, ok := d.files[path]; ok {
		return true
	}
	for dir := range d.dirs {
		if within(path, dir) {
			return true
		}
	}
	return false
}

// bytesUnder returns the bytes removed from within dir this run: files
// deleted individually plus whatever removed subdirectories still held.
func (d *deletions) bytesUnder(dir string) int64 {
	var total int64
	for path, size := range d.files {
		if within(path, dir) {
			total += size
		}
	}
	for sub, remaining := range d.dirs {
		if sub != dir && within(sub, dir) {
			total += remaining
		}
	}
	return total
}

func within(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

package cleanup_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"winnow/internal/cleanup"
	"winnow/internal/dedupe"
)

type stubRefresher struct {
	calls int
	err   error
}

func (s *stubRefresher) Refresh(ctx context.Context) error {
	s.calls++
	return s.err
}

func fileOfSize(t *testing.T, path string, size int64) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	if err := f.Truncate(size); err != nil {
		t.Fatalf("truncate %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

func discardGroup(key string, paths ...string) dedupe.Group {
	group := dedupe.Group{Key: key}
	for i, path := range paths {
		ranked := dedupe.Ranked{Record: dedupe.Record{ID: path, Path: path}}
		if i == 0 {
			group.Keep = ranked
		} else {
			group.Discard = append(group.Discard, ranked)
		}
	}
	return group
}

func TestRunDeletesFileAndPrunesSmallFolder(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "Keep (2020)", "keep.mkv")
	dup := filepath.Join(root, "Dup (2020)", "dup.mkv")
	fileOfSize(t, keep, 100)
	fileOfSize(t, dup, 5000)
	fileOfSize(t, filepath.Join(root, "Dup (2020)", "dup.nfo"), 10)

	refresher := &stubRefresher{}
	exec := cleanup.NewExecutor(cleanup.Options{
		GroupKey:     "Imdb",
		DirThreshold: 1024,
		Refresher:    refresher,
	})

	report := exec.Run(context.Background(), []dedupe.Group{discardGroup("tt001", keep, dup)})

	if _, err := os.Stat(dup); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected duplicate deleted, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Dir(dup)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected folder pruned, stat err=%v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("expected kept file untouched: %v", err)
	}
	if report.FilesDeleted != 1 || report.FoldersDeleted != 1 || report.Failures != 0 {
		t.Fatalf("unexpected report counters: %+v", report)
	}
	if refresher.calls != 1 {
		t.Fatalf("expected refresh after run, got %d calls", refresher.calls)
	}

	want := "File deleted " + dup + " (Imdb=tt001)\nFolder deleted " + filepath.Dir(dup) + ".\n"
	if report.Text() != want {
		t.Fatalf("unexpected report text:\n%q\nwant:\n%q", report.Text(), want)
	}
}

func TestDirThresholdIsExclusive(t *testing.T) {
	const threshold = 20 * 1024 * 1024

	cases := []struct {
		name      string
		remaining int64
		pruned    bool
	}{
		{name: "exactly at threshold stays", remaining: threshold, pruned: false},
		{name: "one byte under is pruned", remaining: threshold - 1, pruned: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			dup := filepath.Join(root, "Movie", "movie.mkv")
			fileOfSize(t, dup, 4096)
			fileOfSize(t, filepath.Join(root, "Movie", "extras.bin"), tc.remaining)

			exec := cleanup.NewExecutor(cleanup.Options{GroupKey: "Imdb"})
			report := exec.Run(context.Background(), []dedupe.Group{discardGroup("tt002", "unused-keep", dup)})

			_, err := os.Stat(filepath.Dir(dup))
			if tc.pruned {
				if !errors.Is(err, os.ErrNotExist) {
					t.Fatalf("expected folder pruned, stat err=%v", err)
				}
				if report.FoldersDeleted != 1 {
					t.Fatalf("expected folder in report, got %+v", report)
				}
			} else {
				if err != nil {
					t.Fatalf("expected folder kept: %v", err)
				}
				if report.FoldersDeleted != 0 {
					t.Fatalf("expected no folder deletion, got %+v", report)
				}
			}
		})
	}
}

func TestDryRunMatchesLiveReportAndLeavesFilesystem(t *testing.T) {
	build := func(t *testing.T) (string, string) {
		root := t.TempDir()
		dup := filepath.Join(root, "Dup", "dup.mkv")
		fileOfSize(t, dup, 9000)
		fileOfSize(t, filepath.Join(root, "Dup", "poster.jpg"), 100)
		return root, dup
	}

	_, dryPath := build(t)
	dry := cleanup.NewExecutor(cleanup.Options{DryRun: true, GroupKey: "Imdb", DirThreshold: 1024})
	dryReport := dry.Run(context.Background(), []dedupe.Group{discardGroup("tt003", "keep", dryPath)})

	if _, err := os.Stat(dryPath); err != nil {
		t.Fatalf("dry-run must not delete files: %v", err)
	}
	if !dryReport.DryRun {
		t.Fatal("expected dry-run flag in report")
	}

	_, livePath := build(t)
	live := cleanup.NewExecutor(cleanup.Options{GroupKey: "Imdb", DirThreshold: 1024})
	liveReport := live.Run(context.Background(), []dedupe.Group{discardGroup("tt003", "keep", livePath)})

	// Paths differ between the two temp dirs; compare shape and counters.
	if dryReport.FilesDeleted != liveReport.FilesDeleted ||
		dryReport.FoldersDeleted != liveReport.FoldersDeleted ||
		dryReport.BytesReclaimed != liveReport.BytesReclaimed ||
		dryReport.Failures != liveReport.Failures {
		t.Fatalf("dry-run and live reports diverge:\ndry:  %+v\nlive: %+v", dryReport, liveReport)
	}
	if len(dryReport.Actions) != len(liveReport.Actions) {
		t.Fatalf("action counts diverge: %d vs %d", len(dryReport.Actions), len(liveReport.Actions))
	}
}

func TestSharedDirectoryKeepsDryRunAndLiveReportsIdentical(t *testing.T) {
	run := func(t *testing.T, dryRun bool) (string, *cleanup.Report) {
		root := t.TempDir()
		first := filepath.Join(root, "Movie (2020)", "movie-720p.mkv")
		second := filepath.Join(root, "Movie (2020)", "movie-480p.mkv")
		fileOfSize(t, first, 5000)
		fileOfSize(t, second, 5000)

		exec := cleanup.NewExecutor(cleanup.Options{DryRun: dryRun, GroupKey: "Imdb", DirThreshold: 1024})
		report := exec.Run(context.Background(), []dedupe.Group{discardGroup("tt005", "keep", first, second)})
		return strings.ReplaceAll(report.Text(), root, ""), report
	}

	dryText, dryReport := run(t, true)
	liveText, liveReport := run(t, false)

	if dryText != liveText {
		t.Fatalf("report text diverges:\ndry:\n%slive:\n%s", dryText, liveText)
	}
	if dryReport.FilesDeleted != 2 || dryReport.FoldersDeleted != 1 || dryReport.Failures != 0 {
		t.Fatalf("unexpected dry-run counters: %+v", dryReport)
	}
	if liveReport.FilesDeleted != dryReport.FilesDeleted ||
		liveReport.FoldersDeleted != dryReport.FoldersDeleted ||
		liveReport.BytesReclaimed != dryReport.BytesReclaimed ||
		liveReport.Failures != dryReport.Failures {
		t.Fatalf("dry-run and live reports diverge:\ndry:  %+v\nlive: %+v", dryReport, liveReport)
	}
}

func TestDiscardLostToEarlierPruneFailsInBothModes(t *testing.T) {
	run := func(t *testing.T, dryRun bool) *cleanup.Report {
		root := t.TempDir()
		big := filepath.Join(root, "Movie", "movie.mkv")
		small := filepath.Join(root, "Movie", "sample.mkv")
		fileOfSize(t, big, 5000)
		fileOfSize(t, small, 200)

		// Removing big leaves 200 bytes, so the folder prune swallows small
		// before its own turn comes up.
		exec := cleanup.NewExecutor(cleanup.Options{DryRun: dryRun, GroupKey: "Imdb", DirThreshold: 1024})
		return exec.Run(context.Background(), []dedupe.Group{discardGroup("tt006", "keep", big, small)})
	}

	for _, dryRun := range []bool{true, false} {
		report := run(t, dryRun)
		if report.FilesDeleted != 1 || report.FoldersDeleted != 1 || report.Failures != 1 {
			t.Fatalf("dryRun=%v: unexpected counters: %+v", dryRun, report)
		}
		if report.BytesReclaimed != 5200 {
			t.Fatalf("dryRun=%v: unexpected bytes reclaimed: %d", dryRun, report.BytesReclaimed)
		}
	}
}

func TestReportCanonicalizesProviderKeyCasing(t *testing.T) {
	root := t.TempDir()
	dup := filepath.Join(root, "dup.mkv")
	fileOfSize(t, dup, 64)
	fileOfSize(t, filepath.Join(root, "other.bin"), 1)

	exec := cleanup.NewExecutor(cleanup.Options{DryRun: true, GroupKey: "imdb", DirThreshold: 1})
	report := exec.Run(context.Background(), []dedupe.Group{discardGroup("tt007", "keep", dup)})

	want := "File deleted " + dup + " (Imdb=tt007)\n"
	if report.Text() != want {
		t.Fatalf("unexpected report text:\n%q\nwant:\n%q", report.Text(), want)
	}
	if report.GroupKey != "Imdb" {
		t.Fatalf("expected canonical group key, got %q", report.GroupKey)
	}
}

func TestMissingFileIsLoggedAndSkipped(t *testing.T) {
	root := t.TempDir()
	present := filepath.Join(root, "present.mkv")
	fileOfSize(t, present, 256)
	missing := filepath.Join(root, "sub", "missing.mkv")

	exec := cleanup.NewExecutor(cleanup.Options{GroupKey: "Imdb", DirThreshold: 1})
	group := dedupe.Group{
		Key:  "tt004",
		Keep: dedupe.Ranked{Record: dedupe.Record{Path: "keep"}},
		Discard: []dedupe.Ranked{
			{Record: dedupe.Record{Path: missing}},
			{Record: dedupe.Record{Path: present}},
		},
	}
	report := exec.Run(context.Background(), []dedupe.Group{group})

	if report.Failures != 1 {
		t.Fatalf("expected 1 failure, got %+v", report)
	}
	if report.FilesDeleted != 1 {
		t.Fatalf("expected batch to continue past the failure, got %+v", report)
	}
	if _, err := os.Stat(present); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected present file deleted, stat err=%v", err)
	}
}

func TestRefreshSkippedInDryRunAndFailureTolerated(t *testing.T) {
	refresher := &stubRefresher{}
	dry := cleanup.NewExecutor(cleanup.Options{DryRun: true, Refresher: refresher})
	dry.Run(context.Background(), nil)
	if refresher.calls != 0 {
		t.Fatalf("dry-run must not trigger refresh, got %d calls", refresher.calls)
	}

	failing := &stubRefresher{err: errors.New("server down")}
	live := cleanup.NewExecutor(cleanup.Options{Refresher: failing})
	report := live.Run(context.Background(), nil)
	if failing.calls != 1 {
		t.Fatalf("expected refresh attempt, got %d", failing.calls)
	}
	if report.Failures != 0 {
		t.Fatalf("refresh failure must not count as a record failure: %+v", report)
	}
}

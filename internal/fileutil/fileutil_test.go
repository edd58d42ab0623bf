package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"winnow/internal/fileutil"
)

func TestFileSizeMissingPathIsZero(t *testing.T) {
	if got := fileutil.FileSize(filepath.Join(t.TempDir(), "absent.mkv")); got != 0 {
		t.Fatalf("expected 0 for missing file, got %d", got)
	}
}

func TestFileSizeDirectoryIsZero(t *testing.T) {
	if got := fileutil.FileSize(t.TempDir()); got != 0 {
		t.Fatalf("expected 0 for directory, got %d", got)
	}
}

func TestFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.mkv")
	if err := os.WriteFile(path, make([]byte, 1234), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if got := fileutil.FileSize(path); got != 1234 {
		t.Fatalf("expected 1234, got %d", got)
	}
}

func TestDirSizeSumsNestedFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "extras"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]int{
		"movie.mkv":         4096,
		"movie.nfo":         128,
		"extras/trailer.mp4": 2048,
	}
	for name, size := range files {
		if err := os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	total, err := fileutil.DirSize(dir)
	if err != nil {
		t.Fatalf("DirSize returned error: %v", err)
	}
	if total != 4096+128+2048 {
		t.Fatalf("unexpected total: %d", total)
	}
}

func TestDirSizeMissingDirErrors(t *testing.T) {
	if _, err := fileutil.DirSize(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

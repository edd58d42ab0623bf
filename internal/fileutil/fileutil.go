// Package fileutil provides the filesystem probes shared by duplicate
// resolution and cleanup execution.
package fileutil

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSize returns the size of the file at path in bytes. Unreadable or
// missing paths count as zero; sizing never fails.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return 0
	}
	return info.Size()
}

// DirSize returns the recursive total size in bytes of all regular files under
// dir. Symlinks are not followed. Entries that cannot be read are skipped so a
// permission error in one subtree does not abort the walk.
func DirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == dir {
				return walkErr
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

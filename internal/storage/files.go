package storage

import (
	"io"
	"os"
	"path/filepath"
)

// Files resolves opaque file references to raw bytes on disk. The worker
// checks existence before extraction; the extraction adapter reads through
// Open or the path itself.
type Files interface {
	Exists(path string) bool
	Open(path string) (io.ReadCloser, error)
}

// DiskFiles implements Files over the local filesystem.
type DiskFiles struct{}

// Exists reports whether path exists and is a regular file.
func (DiskFiles) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Open opens path for reading.
func (DiskFiles) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// DiskUsageBytes returns the total size in bytes of the given paths.
// Each path may be a file or a directory (recursively summed).
// Missing or inaccessible paths are skipped (contribute 0); errors during walk are returned.
func DiskUsageBytes(paths ...string) (int64, error) {
	var total int64
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return 0, err
		}
		if info.IsDir() {
			n, err := dirSize(p)
			if err != nil {
				return 0, err
			}
			total += n
		} else {
			total += info.Size()
		}
	}
	return total, nil
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info != nil && !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

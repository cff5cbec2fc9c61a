package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func NowRFC3339() string { return time.Now().UTC().Format(time.RFC3339) }

func EnsureDir(path string, perm os.FileMode) error {
	if err := os.MkdirAll(path, perm); err != nil {
		return err
	}
	return os.Chmod(path, perm)
}

// AtomicWriteFile writes data to a temp file next to path and renames it into place.
func AtomicWriteFile(path string, perm os.FileMode, data []byte) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp.%d", filepath.Base(path), time.Now().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

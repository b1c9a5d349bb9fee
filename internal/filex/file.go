// Package filex has filesystem helpers for the local wallet data files.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path, readable only
// by the current user. It is a no-op for paths in the working directory.
func EnsureParentDir(path string) (string, error) {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return dir, nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

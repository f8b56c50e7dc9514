package lifecycle

import (
	"fmt"
	"os"
	"path/filepath"

	"conversor/internal/logger"
)

// CleanupUploads removes every regular file directly inside dir and reports
// how many were removed. A missing directory is not an error.
func CleanupUploads(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list uploads: %w", err)
	}

	removed := 0
	var firstErr error
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warnf("[Lifecycle] Failed to remove %s: %v", path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		logger.Debugf("[Lifecycle] Removed upload %s", path)
		removed++
	}
	if removed > 0 {
		logger.Infof("[Lifecycle] Removed %d uploaded files from %s", removed, dir)
	}
	return removed, firstErr
}

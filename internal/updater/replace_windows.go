//go:build windows

package updater

import "os"

// atomicReplace moves src over dst on Windows, where a running
// executable cannot be overwritten but can be renamed. The current file
// is renamed aside to .old first; CleanupOld removes it on a later run.
func atomicReplace(src, dst string) error {
	oldPath := dst + oldSuffix

	// Remove any stale .old from a previous swap.
	os.Remove(oldPath)

	if err := os.Rename(dst, oldPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	if err := os.Rename(src, dst); err != nil {
		// Put the original back.
		os.Rename(oldPath, dst)
		return err
	}

	return nil
}

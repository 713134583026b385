//go:build !windows

package updater

import "os"

// atomicReplace moves src over dst. On Unix, rename is atomic when both
// paths are on the same filesystem, and replacing a running executable
// is allowed, so no rename-aside step is needed.
func atomicReplace(src, dst string) error {
	return os.Rename(src, dst)
}

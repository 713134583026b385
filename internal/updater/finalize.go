package updater

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/glidesoft/glide-updater/internal/logging"
)

const oldSuffix = ".old"

// FinalizeStaged swaps every pending replacement under dir into place.
// It is the launch-time counterpart of PolicyStage: once the previous
// process has exited and released its lock, each "<name>.new" file
// replaces "<name>". On Windows the displaced file survives as
// "<name>.old" until CleanupOld removes it.
func FinalizeStaged(dir string) error {
	staged, err := findSuffixed(dir, StagedSuffix)
	if err != nil {
		return err
	}

	for _, src := range staged {
		dst := strings.TrimSuffix(src, StagedSuffix)
		if err := atomicReplace(src, dst); err != nil {
			return fmt.Errorf("%w: finalize %s: %v", ErrIO, dst, err)
		}
		logging.Info("finalized staged file", "path", dst)
	}

	return nil
}

// CleanupOld removes displaced files left behind by earlier swaps.
// Failures are logged and skipped; leftovers are harmless.
func CleanupOld(dir string) {
	old, err := findSuffixed(dir, oldSuffix)
	if err != nil {
		logging.Warn("cleanup scan failed", "dir", dir, "error", err)
		return
	}
	for _, path := range old {
		if err := os.Remove(path); err != nil {
			logging.Warn("could not remove displaced file", "path", path, "error", err)
		}
	}
}

func findSuffixed(dir, suffix string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), suffix) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan %s: %v", ErrIO, dir, err)
	}
	return out, nil
}

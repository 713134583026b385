package updater

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ReplacePolicy selects the disposition for the payload file whose name
// matches the running executable.
type ReplacePolicy string

const (
	// PolicySkip leaves the running executable untouched.
	PolicySkip ReplacePolicy = "skip"

	// PolicyStage writes the replacement under a pending suffix next to
	// the live executable; FinalizeStaged swaps it in on a later launch.
	PolicyStage ReplacePolicy = "stage"
)

// StagedSuffix marks a pending executable replacement written by
// PolicyStage. The live file keeps its lock; the swap happens after the
// old process has exited.
const StagedSuffix = ".new"

// Merger copies a payload tree into the target directory.
type Merger struct {
	targetDir string
	policy    ReplacePolicy
	exeName   string
}

// NewMerger creates a Merger. An empty exeName resolves to the file name
// of the currently running executable.
func NewMerger(targetDir string, policy ReplacePolicy, exeName string) (*Merger, error) {
	if exeName == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("%w: resolve executable: %v", ErrIO, err)
		}
		exeName = filepath.Base(exe)
	}
	return &Merger{
		targetDir: targetDir,
		policy:    policy,
		exeName:   exeName,
	}, nil
}

// CountPayloadFiles returns the number of regular files under root. The
// count is taken in a separate pass so the merge total is known before
// the first file is copied.
func CountPayloadFiles(root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: walk payload: %v", ErrIO, err)
	}
	return count, nil
}

// Merge walks payloadRoot and copies every regular file to its
// corresponding path under the target directory, overwriting existing
// files. The file matching the running executable gets the configured
// self-replace disposition; it is still counted and still produces a
// progress call. total is the precomputed CountPayloadFiles result.
func (m *Merger) Merge(payloadRoot string, total int, progress ProgressFunc) error {
	current := 0
	return filepath.WalkDir(payloadRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walk payload: %v", ErrIO, err)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(payloadRoot, path)
		if err != nil {
			return fmt.Errorf("%w: relative path for %s: %v", ErrIO, path, err)
		}
		dest := filepath.Join(m.targetDir, rel)

		current++
		if progress != nil {
			progress(current, total, rel)
		}

		if filepath.Base(dest) == m.exeName {
			if m.policy == PolicySkip {
				return nil
			}
			dest += StagedSuffix
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("%w: create dir %s: %v", ErrIO, filepath.Dir(dest), err)
		}
		if err := copyFile(path, dest); err != nil {
			return err
		}
		return nil
	})
}

// copyFile copies src to dst, truncating dst if it exists and carrying
// the source permissions over.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrIO, src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", ErrIO, src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrIO, dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("%w: copy to %s: %v", ErrIO, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrIO, dst, err)
	}

	// O_CREATE perms don't apply when dst already existed.
	os.Chmod(dst, info.Mode().Perm())
	return nil
}

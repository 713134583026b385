package updater

import (
	"fmt"
	"os"
	"path/filepath"
)

// conventionalPayloadDir is the product folder name some packages wrap
// their payload in.
const conventionalPayloadDir = "Glide"

// ResolvePayloadRoot determines which directory under scratch holds the
// files to install. Policy, in order:
//
//  1. A non-empty innerPath hint selects scratch/innerPath and fails if
//     that path does not exist after extraction.
//  2. A conventionally named top-level product folder, if present.
//  3. The scratch root itself.
func ResolvePayloadRoot(scratch, innerPath string) (string, error) {
	if innerPath != "" {
		root := filepath.Join(scratch, innerPath)
		if _, err := os.Stat(root); err != nil {
			return "", fmt.Errorf("%w: %s", ErrPayloadNotFound, innerPath)
		}
		return root, nil
	}

	conventional := filepath.Join(scratch, conventionalPayloadDir)
	if info, err := os.Stat(conventional); err == nil && info.IsDir() {
		return conventional, nil
	}

	return scratch, nil
}

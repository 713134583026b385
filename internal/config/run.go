package config

import (
	"fmt"

	"github.com/glidesoft/glide-updater/internal/i18n"
	"github.com/glidesoft/glide-updater/internal/logging"
)

// Self-replace policies for the file matching the running executable.
const (
	// ReplaceSkip leaves the running executable untouched.
	ReplaceSkip = "skip"

	// ReplaceStage writes the replacement next to the live executable
	// under a pending suffix, to be swapped in on a later launch.
	ReplaceStage = "stage"
)

// RunConfig describes one update run.
type RunConfig struct {
	// PackagePath is the update archive on disk. Required.
	PackagePath string `yaml:"package_path" json:"package_path"`

	// InnerPath is an optional path inside the extracted archive that
	// holds the payload. Empty means resolver fallback.
	InnerPath string `yaml:"inner_path" json:"inner_path"`

	// TargetDir is the installation directory the payload merges into.
	// Required; there is no current-working-directory default.
	TargetDir string `yaml:"target_dir" json:"target_dir"`

	// DelaySeconds is an optional pause before the run begins, letting
	// a parent process exit and release file locks.
	DelaySeconds uint64 `yaml:"delay_seconds" json:"delay_seconds"`

	// DeletePackage removes the archive after a successful run.
	DeletePackage bool `yaml:"delete_package" json:"delete_package"`

	// SelfReplace selects the disposition for the file matching the
	// running executable: "skip" or "stage".
	SelfReplace string `yaml:"self_replace" json:"self_replace"`

	// Language selects the display language for the frontend ("zh", "en").
	Language string `yaml:"language" json:"language"`

	Logging logging.Config `yaml:"logging" json:"logging"`
}

// DefaultRunConfig returns a RunConfig with the defaults filled in.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		SelfReplace: ReplaceStage,
		Language:    string(i18n.Chinese),
		Logging:     logging.DefaultConfig(),
	}
}

// Validate checks the run configuration for missing or malformed values.
func (c *RunConfig) Validate() error {
	if c.PackagePath == "" {
		return fmt.Errorf("package path is required")
	}
	if c.TargetDir == "" {
		return fmt.Errorf("target directory is required")
	}
	switch c.SelfReplace {
	case ReplaceSkip, ReplaceStage:
	default:
		return fmt.Errorf("self_replace must be %q or %q, got %q", ReplaceSkip, ReplaceStage, c.SelfReplace)
	}
	if c.Language != "" {
		if _, ok := i18n.Parse(c.Language); !ok {
			return fmt.Errorf("language must be %q or %q, got %q", i18n.Chinese, i18n.English, c.Language)
		}
	}
	return nil
}

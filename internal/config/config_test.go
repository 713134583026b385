package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")

	content := `
package_path: /tmp/update.zip
inner_path: Glide
target_dir: /opt/glide
delay_seconds: 2
delete_package: true
self_replace: stage
language: en
logging:
  level: debug
  format: json
`
	err := os.WriteFile(configFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg := DefaultRunConfig()
	err = Load(configFile, &cfg)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/update.zip", cfg.PackagePath)
	assert.Equal(t, "Glide", cfg.InnerPath)
	assert.Equal(t, "/opt/glide", cfg.TargetDir)
	assert.Equal(t, uint64(2), cfg.DelaySeconds)
	assert.True(t, cfg.DeletePackage)
	assert.Equal(t, ReplaceStage, cfg.SelfReplace)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")

	t.Setenv("GLIDE_TARGET", "/opt/glide")
	content := "package_path: /tmp/u.zip\ntarget_dir: ${GLIDE_TARGET}\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	var cfg RunConfig
	require.NoError(t, Load(configFile, &cfg))
	assert.Equal(t, "/opt/glide", cfg.TargetDir)
}

func TestLoadMissingFile(t *testing.T) {
	var cfg RunConfig
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultRunConfig()
	cfg.PackagePath = "/tmp/pkg.zip"
	cfg.TargetDir = "/opt/app"

	require.NoError(t, Save(configFile, &cfg))

	var loaded RunConfig
	require.NoError(t, Load(configFile, &loaded))
	assert.Equal(t, cfg, loaded)
}

func TestRunConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RunConfig)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *RunConfig) {},
		},
		{
			name:    "missing package path",
			mutate:  func(c *RunConfig) { c.PackagePath = "" },
			wantErr: true,
		},
		{
			name:    "missing target dir",
			mutate:  func(c *RunConfig) { c.TargetDir = "" },
			wantErr: true,
		},
		{
			name:    "unknown self-replace policy",
			mutate:  func(c *RunConfig) { c.SelfReplace = "overwrite" },
			wantErr: true,
		},
		{
			name:   "skip policy",
			mutate: func(c *RunConfig) { c.SelfReplace = ReplaceSkip },
		},
		{
			name:    "unknown language",
			mutate:  func(c *RunConfig) { c.Language = "klingon" },
			wantErr: true,
		},
		{
			name:   "english language",
			mutate: func(c *RunConfig) { c.Language = "en" },
		},
		{
			name:   "empty language falls back to default",
			mutate: func(c *RunConfig) { c.Language = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultRunConfig()
			cfg.PackagePath = "/tmp/pkg.zip"
			cfg.TargetDir = "/opt/app"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

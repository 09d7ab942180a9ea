package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "TB", cfg.Direction)
	assert.Equal(t, "md", cfg.Format)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.False(t, cfg.HidePrivate)
	assert.Equal(t, DefaultExcludes, cfg.Exclude)
	assert.Zero(t, cfg.MaxChars)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classmaid.yaml")
	content := `direction: LR
format: mmd
output_dir: diagrams
hide_private: true
extend_exclude:
  - "**/migrations/**"
max_chars: 80000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "LR", cfg.Direction)
	assert.Equal(t, "mmd", cfg.Format)
	assert.Equal(t, "diagrams", cfg.OutputDir)
	assert.True(t, cfg.HidePrivate)
	assert.Equal(t, []string{"**/migrations/**"}, cfg.ExtendExclude)
	assert.Equal(t, 80000, cfg.MaxChars)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classmaid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("direction: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CLASSMAID_DIRECTION", "RL")
	t.Setenv("CLASSMAID_FORMAT", "mmd")
	t.Setenv("CLASSMAID_OUTPUT_DIR", "/tmp/out")
	t.Setenv("CLASSMAID_MAX_CHARS", "1234")
	t.Setenv("CLASSMAID_HIDE_PRIVATE", "true")
	t.Setenv("CLASSMAID_EXCLUDE", "setup.py, **/vendor/**")
	t.Setenv("CLASSMAID_EXTEND_EXCLUDE", "**/migrations/**")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "RL", cfg.Direction)
	assert.Equal(t, "mmd", cfg.Format)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, 1234, cfg.MaxChars)
	assert.True(t, cfg.HidePrivate)
	assert.Equal(t, []string{"setup.py", "**/vendor/**"}, cfg.Exclude)
	assert.Equal(t, []string{"**/migrations/**"}, cfg.ExtendExclude)
}

func TestLoad_BadHidePrivateIgnored(t *testing.T) {
	t.Setenv("CLASSMAID_HIDE_PRIVATE", "maybe")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.False(t, cfg.HidePrivate)
}

func TestLoad_BadMaxCharsIgnored(t *testing.T) {
	t.Setenv("CLASSMAID_MAX_CHARS", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Zero(t, cfg.MaxChars)
}

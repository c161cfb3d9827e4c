package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "design/*.yml")}, cfg.Design.Files)
	assert.Equal(t, "main", cfg.Design.Module)
	assert.Equal(t, filepath.Join(dir, "build/design"), cfg.Output.Dir)
	assert.False(t, cfg.Output.NoColor)
	assert.False(t, cfg.Link.ReverseOrder)
	assert.Equal(t, zapcore.WarnLevel, cfg.LogLevel())
	assert.False(t, InProject(dir))
}

func TestLoadWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
project_name: shop
design:
  files: [model/*.yml, /abs/extra.yml]
  module: sales
output:
  dir: out
  no_color: true
link:
  reverse_order: true
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "shop", cfg.ProjectName)
	assert.Equal(t, []string{filepath.Join(dir, "model/*.yml"), "/abs/extra.yml"}, cfg.Design.Files)
	assert.Equal(t, "sales", cfg.Design.Module)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.Output.Dir)
	assert.True(t, cfg.Output.NoColor)
	assert.True(t, cfg.Link.ReverseOrder)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel())
	assert.True(t, InProject(dir))
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("MODELER_LOG_LEVEL", "error")
	t.Setenv("MODELER_LINK_REVERSE_ORDER", "true")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, cfg.LogLevel())
	assert.True(t, cfg.Link.ReverseOrder)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"empty module", "design:\n  module: \" \"\n", "design.module"},
		{"bad pattern", "design:\n  files: [\"[\"]\n", "design.files"},
		{"malformed yaml", "design: [\n", "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0644))

			_, err := Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("project_name: shop\n"), 0644))
	nested := filepath.Join(root, "design", "sales")
	require.NoError(t, os.MkdirAll(nested, 0755))

	found, err := FindProjectRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, found)

	_, err = FindProjectRoot(t.TempDir())
	assert.Error(t, err)
}

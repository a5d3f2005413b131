package toml_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Youngleechen/writeedit/toml"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := toml.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, toml.Default(), cfg)
	assert.Equal(t, "gemini-3-flash-preview", cfg.Model)
	assert.Equal(t, 5000, cfg.DiffThreshold)
	assert.Equal(t, 2*time.Second, cfg.AutosaveDelay.Duration)
}

func TestLoad_ReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
model = "gemini-test"
database_path = "/tmp/test.db"
diff_threshold = 100
autosave_delay = "750ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := toml.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-test", cfg.Model)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	assert.Equal(t, 100, cfg.DiffThreshold)
	assert.Equal(t, 750*time.Millisecond, cfg.AutosaveDelay.Duration)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`model = "custom"`), 0o644))

	cfg, err := toml.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Model)
	assert.Equal(t, toml.Default().DatabasePath, cfg.DatabasePath)
	assert.Equal(t, toml.Default().AutosaveDelay, cfg.AutosaveDelay)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`autosave_delay = "soon"`), 0o644))

	_, err := toml.Load(path)
	assert.Error(t, err)
}

func TestLoad_MalformedTOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`model = `), 0o644))

	_, err := toml.Load(path)
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, toml.DefaultPath())
}

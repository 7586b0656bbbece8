package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
)

func newTestConfigStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
	assert.DirExists(t, dir)
}

func TestNewConfigStore_MissingFileIsEmptyConfig(t *testing.T) {
	store, _ := newTestConfigStore(t)

	_, ok := store.Get(driven.ConfigProvider)
	assert.False(t, ok)
}

func TestConfigStore_SetPersistsImmediately(t *testing.T) {
	store, dir := newTestConfigStore(t)

	require.NoError(t, store.Set(driven.ConfigProvider, "anthropic"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", reopened.GetString(driven.ConfigProvider))
}

func TestConfigStore_GetString(t *testing.T) {
	store, _ := newTestConfigStore(t)
	require.NoError(t, store.Set(driven.ConfigWikiPath, "/tmp/wiki"))
	require.NoError(t, store.Set(driven.ConfigMaxDiffChars, 2000))

	assert.Equal(t, "/tmp/wiki", store.GetString(driven.ConfigWikiPath))
	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, "", store.GetString(driven.ConfigMaxDiffChars), "non-string values read as empty")
}

func TestConfigStore_GetInt(t *testing.T) {
	store, dir := newTestConfigStore(t)
	require.NoError(t, store.Set(driven.ConfigMaxDiffChars, 2000))

	assert.Equal(t, 2000, store.GetInt(driven.ConfigMaxDiffChars))
	assert.Equal(t, 0, store.GetInt("missing"))

	// The TOML decoder hands integers back as int64.
	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 2000, reopened.GetInt(driven.ConfigMaxDiffChars))
}

func TestConfigStore_GetBool(t *testing.T) {
	store, _ := newTestConfigStore(t)
	require.NoError(t, store.Set("dry_run_default", true))

	assert.True(t, store.GetBool("dry_run_default"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, _ := newTestConfigStore(t)
	require.NoError(t, store.Set(driven.ConfigAPIKey, "sk-secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_LoadFlattensTables(t *testing.T) {
	dir := t.TempDir()
	content := "provider = \"ollama\"\n\n[judge]\nmodel = \"llama3\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, "ollama", store.GetString(driven.ConfigProvider))
	assert.Equal(t, "llama3", store.GetString("judge.model"))
}

func TestConfigStore_LoadRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not toml ==="), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_SaveLeavesNoTempFile(t *testing.T) {
	store, dir := newTestConfigStore(t)
	require.NoError(t, store.Set(driven.ConfigRepoOwner, "driftdocs"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}

func TestFlattenInto(t *testing.T) {
	dst := map[string]any{}

	flattenInto(dst, "", map[string]any{
		"top": "value",
		"outer": map[string]any{
			"inner": map[string]any{"leaf": int64(7)},
		},
	})

	assert.Equal(t, map[string]any{
		"top":              "value",
		"outer.inner.leaf": int64(7),
	}, dst)
}

package wikifs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestListPages(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Database-Schema.md"),
		[]byte("# Database Schema\n\nthe posts table"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"),
		[]byte("not a page"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "images"), 0o755))

	pages, err := store.ListPages(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1, "non-markdown files and directories are skipped")
	assert.Equal(t, "Database Schema", pages[0].Title)
	assert.Equal(t, domain.PageFingerprint("# Database Schema\n\nthe posts table"), pages[0].Fingerprint)
	assert.False(t, pages[0].LastModified.IsZero())
}

func TestReadPage(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "API-Reference.md"),
		[]byte("# API Reference\n"), 0o644))

	page, err := store.ReadPage(context.Background(), "API Reference")
	require.NoError(t, err)
	assert.Equal(t, "# API Reference\n", page.Content)

	_, err = store.ReadPage(context.Background(), "Missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWritePageCreate(t *testing.T) {
	store, dir := newTestStore(t)

	err := store.WritePage(context.Background(), "User Preferences Table", "# User Preferences Table\n", "")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "User-Preferences-Table.md"))
	require.NoError(t, err)
	assert.Equal(t, "# User Preferences Table\n", string(content))

	// Creating again collides.
	err = store.WritePage(context.Background(), "User Preferences Table", "other", "")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestWritePageCompareAndSwap(t *testing.T) {
	store, _ := newTestStore(t)
	original := "# Database Schema\n\noriginal content"
	require.NoError(t, store.WritePage(context.Background(), "Database Schema", original, ""))

	// Matching fingerprint succeeds.
	err := store.WritePage(context.Background(), "Database Schema",
		"# Database Schema\n\nupdated", domain.PageFingerprint(original))
	require.NoError(t, err)

	// The old fingerprint is now stale.
	err = store.WritePage(context.Background(), "Database Schema",
		"# Database Schema\n\nanother", domain.PageFingerprint(original))
	assert.ErrorIs(t, err, domain.ErrStaleWrite)

	// Updating a missing page fails.
	err = store.WritePage(context.Background(), "Missing", "content", "somefingerprint")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	page, err := store.ReadPage(context.Background(), "Database Schema")
	require.NoError(t, err)
	assert.Equal(t, "# Database Schema\n\nupdated", page.Content, "stale write never lands")
}

func TestPageURL(t *testing.T) {
	store, dir := newTestStore(t)
	assert.Equal(t, "file://"+filepath.Join(dir, "Database-Schema.md"), store.PageURL("Database Schema"))
}

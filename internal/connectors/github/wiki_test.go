package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
)

// wikiServer fakes the Git data API for a one-page wiki.
func wikiServer(t *testing.T, pageContent string) *http.ServeMux {
	t.Helper()
	encoded := base64.StdEncoding.EncodeToString([]byte(pageContent))

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/driftdocs/sample-app.wiki/git/ref/heads/master", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ref": "refs/heads/master", "object": {"type": "commit", "sha": "headsha"}}`)
	})
	mux.HandleFunc("/repos/driftdocs/sample-app.wiki/git/commits/headsha", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"sha": "headsha",
			"tree": {"sha": "treesha"},
			"committer": {"date": "2025-08-01T10:00:00Z"}
		}`)
	})
	mux.HandleFunc("/repos/driftdocs/sample-app.wiki/git/trees/headsha", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"sha": "treesha",
			"tree": [
				{"path": "Database-Schema.md", "type": "blob", "sha": "blobsha"},
				{"path": "images/diagram.png", "type": "blob", "sha": "imgsha"},
				{"path": "subdir", "type": "tree", "sha": "subsha"}
			]
		}`)
	})
	mux.HandleFunc("/repos/driftdocs/sample-app.wiki/git/blobs/blobsha", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"sha": "blobsha", "encoding": "base64", "content": %q}`, encoded)
	})
	return mux
}

func TestWikiStoreListPages(t *testing.T) {
	content := "# Database Schema\n\nthe posts table stores blog entries"
	store := NewWikiStore(testClient(t, wikiServer(t, content)), "driftdocs", "sample-app")

	pages, err := store.ListPages(context.Background())

	require.NoError(t, err)
	require.Len(t, pages, 1, "non-markdown and nested entries are skipped")
	assert.Equal(t, "Database Schema", pages[0].Title)
	assert.Equal(t, len(content), pages[0].ApproximateSize)
	assert.Equal(t, domain.PageFingerprint(content), pages[0].Fingerprint)
	assert.Equal(t, 2025, pages[0].LastModified.Year())
}

func TestWikiStoreReadPage(t *testing.T) {
	content := "# Database Schema\n\nthe posts table stores blog entries"
	store := NewWikiStore(testClient(t, wikiServer(t, content)), "driftdocs", "sample-app")

	page, err := store.ReadPage(context.Background(), "Database Schema")
	require.NoError(t, err)
	assert.Equal(t, content, page.Content)
	assert.Equal(t, domain.PageFingerprint(content), page.Fingerprint)

	_, err = store.ReadPage(context.Background(), "No Such Page")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWikiStoreListPagesWikiMissing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})
	store := NewWikiStore(testClient(t, mux), "driftdocs", "sample-app")

	_, err := store.ListPages(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestWikiStoreWritePageCreateConflict(t *testing.T) {
	content := "# Database Schema\n\nexisting"
	store := NewWikiStore(testClient(t, wikiServer(t, content)), "driftdocs", "sample-app")

	err := store.WritePage(context.Background(), "Database Schema", "new content", "")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestWikiStoreWritePageStaleFingerprint(t *testing.T) {
	content := "# Database Schema\n\nexisting"
	store := NewWikiStore(testClient(t, wikiServer(t, content)), "driftdocs", "sample-app")

	err := store.WritePage(context.Background(), "Database Schema", "new content", "someoldfingerprint")
	assert.ErrorIs(t, err, domain.ErrStaleWrite)
}

func TestWikiStoreWritePageCommitsAndAdvancesRef(t *testing.T) {
	content := "# Database Schema\n\nexisting"
	mux := wikiServer(t, content)

	var refUpdate struct {
		SHA   string `json:"sha"`
		Force bool   `json:"force"`
	}
	mux.HandleFunc("/repos/driftdocs/sample-app.wiki/git/blobs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha": "newblobsha"}`)
	})
	mux.HandleFunc("/repos/driftdocs/sample-app.wiki/git/trees", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha": "newtreesha"}`)
	})
	mux.HandleFunc("/repos/driftdocs/sample-app.wiki/git/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha": "newcommitsha"}`)
	})
	mux.HandleFunc("/repos/driftdocs/sample-app.wiki/git/refs/heads/master", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&refUpdate))
		fmt.Fprint(w, `{"ref": "refs/heads/master", "object": {"sha": "newcommitsha"}}`)
	})

	store := NewWikiStore(testClient(t, mux), "driftdocs", "sample-app")

	err := store.WritePage(context.Background(), "Database Schema",
		"# Database Schema\n\nupdated", domain.PageFingerprint(content))

	require.NoError(t, err)
	assert.Equal(t, "newcommitsha", refUpdate.SHA)
	assert.False(t, refUpdate.Force, "wiki writes must never force-push")
}

func TestWikiFilenameRoundTrip(t *testing.T) {
	assert.Equal(t, "Database-Schema.md", wikiFilename("Database Schema"))
	assert.Equal(t, "Database Schema", titleFromFilename("Database-Schema.md"))
	assert.Equal(t, "Home.md", wikiFilename("Home"))
}

func TestWikiStorePageURL(t *testing.T) {
	store := NewWikiStore(nil, "driftdocs", "sample-app")
	assert.Equal(t,
		"https://github.com/driftdocs/sample-app/wiki/Database-Schema",
		store.PageURL("Database Schema"))
}

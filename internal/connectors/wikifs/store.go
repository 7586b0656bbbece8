package wikifs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocStore = (*Store)(nil)

// Store is a documentation store backed by a directory of markdown
// files, one page per file. Page titles map to filenames the same way
// GitHub wikis store them: "Database Schema" becomes Database-Schema.md.
// The mutex serialises writes within this process; cross-process
// conflicts are caught by the fingerprint check.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create wiki directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// ListPages returns a summary of every markdown page in the directory.
func (s *Store) ListPages(_ context.Context) ([]domain.PageSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var pages []domain.PageSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, entry.Name(), err)
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %v", domain.ErrStoreUnavailable, entry.Name(), err)
		}
		pages = append(pages, domain.PageSummary{
			Title:           titleFromFilename(entry.Name()),
			ApproximateSize: len(content),
			Fingerprint:     domain.PageFingerprint(string(content)),
			LastModified:    info.ModTime(),
		})
	}
	return pages, nil
}

// ReadPage fetches one page by title.
func (s *Store) ReadPage(_ context.Context, title string) (*driven.Page, error) {
	path := s.pagePath(title)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: wiki page %q", domain.ErrNotFound, title)
		}
		return nil, fmt.Errorf("read page %q: %w", title, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat page %q: %w", title, err)
	}
	return &driven.Page{
		Title:        title,
		Content:      string(content),
		Fingerprint:  domain.PageFingerprint(string(content)),
		LastModified: info.ModTime(),
	}, nil
}

// WritePage writes a page file. An empty expectedFingerprint means
// create-only; otherwise the write only proceeds when the file's
// current fingerprint still matches.
func (s *Store) WritePage(_ context.Context, title, content, expectedFingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pagePath(title)
	current, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read page %q: %w", title, err)
	}

	if expectedFingerprint == "" {
		if exists {
			return fmt.Errorf("%w: wiki page %q", domain.ErrAlreadyExists, title)
		}
	} else {
		if !exists {
			return fmt.Errorf("%w: wiki page %q", domain.ErrNotFound, title)
		}
		if domain.PageFingerprint(string(current)) != expectedFingerprint {
			return fmt.Errorf("%w: wiki page %q changed since it was scanned", domain.ErrStaleWrite, title)
		}
	}

	// Write through a temp file so a crash never leaves a half page.
	tmp, err := os.CreateTemp(s.dir, ".docsync-*")
	if err != nil {
		return fmt.Errorf("write page %q: %w", title, err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write page %q: %w", title, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write page %q: %w", title, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write page %q: %w", title, err)
	}
	return nil
}

// PageURL returns a file URI for the page.
func (s *Store) PageURL(title string) string {
	return "file://" + s.pagePath(title)
}

// Close is a no-op; files are opened per call.
func (s *Store) Close() error { return nil }

func (s *Store) pagePath(title string) string {
	return filepath.Join(s.dir, filenameFromTitle(title))
}

func filenameFromTitle(title string) string {
	return strings.ReplaceAll(title, " ", "-") + ".md"
}

func titleFromFilename(filename string) string {
	title := strings.TrimSuffix(filename, ".md")
	return strings.ReplaceAll(title, "-", " ")
}

package services

import (
	"context"
	"strings"
	"time"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockJudge implements driven.JudgmentService with scripted responses.
// Each Judge call consumes the next response (the last one repeats).
type mockJudge struct {
	responses []string
	err       error
	prompts   []string
	calls     int
}

func (m *mockJudge) Judge(_ context.Context, prompt string, _ driven.JudgeOptions) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return resp, nil
}

func (m *mockJudge) ModelName() string           { return "mock-judge" }
func (m *mockJudge) Ping(_ context.Context) error { return nil }
func (m *mockJudge) Close() error                 { return nil }

// mockDiffSource implements driven.DiffSource.
type mockDiffSource struct {
	changes []domain.ChangeRecord
	err     error
}

func (m *mockDiffSource) Changes(_ context.Context, _, _ string) ([]domain.ChangeRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.changes, nil
}

func (m *mockDiffSource) Close() error { return nil }

// mockDocStore implements driven.DocStore over an in-memory page map.
type mockDocStore struct {
	pages      map[string]*driven.Page
	listErr    error
	readErr    error
	writeErr   error
	writeCalls int
}

func newMockDocStore(pages ...driven.Page) *mockDocStore {
	s := &mockDocStore{pages: make(map[string]*driven.Page)}
	for i := range pages {
		p := pages[i]
		if p.Fingerprint == "" {
			p.Fingerprint = domain.PageFingerprint(p.Content)
		}
		s.pages[p.Title] = &p
	}
	return s
}

func (m *mockDocStore) ListPages(_ context.Context) ([]domain.PageSummary, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.PageSummary
	for _, p := range m.pages {
		out = append(out, domain.PageSummary{
			Title:           p.Title,
			ApproximateSize: len(p.Content),
			Fingerprint:     p.Fingerprint,
			LastModified:    p.LastModified,
		})
	}
	return out, nil
}

func (m *mockDocStore) ReadPage(_ context.Context, title string) (*driven.Page, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	p, ok := m.pages[title]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockDocStore) WritePage(_ context.Context, title, content, expectedFingerprint string) error {
	m.writeCalls++
	if m.writeErr != nil {
		return m.writeErr
	}
	existing, ok := m.pages[title]
	if expectedFingerprint == "" {
		if ok {
			return domain.ErrAlreadyExists
		}
	} else {
		if !ok {
			return domain.ErrNotFound
		}
		if existing.Fingerprint != expectedFingerprint {
			return domain.ErrStaleWrite
		}
	}
	m.pages[title] = &driven.Page{
		Title:        title,
		Content:      content,
		Fingerprint:  domain.PageFingerprint(content),
		LastModified: time.Now(),
	}
	return nil
}

func (m *mockDocStore) PageURL(title string) string {
	return "mock://wiki/" + strings.ReplaceAll(title, " ", "-")
}

func (m *mockDocStore) Close() error { return nil }

// mockRunStore implements driven.RunStore.
type mockRunStore struct {
	saved []domain.RunSummary
	err   error
}

func (m *mockRunStore) SaveRun(_ context.Context, summary domain.RunSummary) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, summary)
	return nil
}

func (m *mockRunStore) GetRun(_ context.Context, runID string) (*domain.RunSummary, error) {
	for i := range m.saved {
		if m.saved[i].RunID == runID {
			return &m.saved[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRunStore) ListRuns(_ context.Context, limit int) ([]domain.RunSummary, error) {
	if limit > len(m.saved) {
		limit = len(m.saved)
	}
	return m.saved[:limit], nil
}

func (m *mockRunStore) Close() error { return nil }

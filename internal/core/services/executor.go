package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
	"github.com/driftdocs/docsync-cli/internal/logger"
)

// PlanExecutor applies plan entries against the documentation store,
// strictly in plan order. One entry failing never blocks the rest:
// a run is allowed to partially succeed.
type PlanExecutor struct {
	store driven.DocStore
}

// NewPlanExecutor creates an executor over a documentation store.
func NewPlanExecutor(store driven.DocStore) *PlanExecutor {
	return &PlanExecutor{store: store}
}

// Execute applies every plan entry and returns one result per entry.
// filter, when non-nil, can veto individual entries (interactive review);
// vetoed entries are recorded as skipped. inv is the inventory snapshot
// the plan was built against, used for the stale-write check.
func (x *PlanExecutor) Execute(
	ctx context.Context,
	plan domain.Plan,
	inv domain.WikiInventory,
	meta RunMeta,
	filter func(domain.PlanEntry) bool,
) []domain.ExecutionResult {
	results := make([]domain.ExecutionResult, 0, len(plan.Entries))

	for _, entry := range plan.Entries {
		results = append(results, x.executeEntry(ctx, entry, inv, meta, filter))
	}
	return results
}

func (x *PlanExecutor) executeEntry(
	ctx context.Context,
	entry domain.PlanEntry,
	inv domain.WikiInventory,
	meta RunMeta,
	filter func(domain.PlanEntry) bool,
) domain.ExecutionResult {
	result := domain.ExecutionResult{
		Entry: domain.ExecutedEntry{
			ID:          entry.ID,
			Action:      entry.Action,
			TargetPage:  firstTarget(&entry),
			ContentType: entry.ContentType,
		},
	}

	if entry.IsSkip() {
		result.Outcome = domain.OutcomeSkipped
		return result
	}
	if filter != nil && !filter(entry) {
		result.Outcome = domain.OutcomeSkipped
		result.ErrorDetail = "vetoed by reviewer"
		return result
	}
	if entry.SynthesisError != "" {
		result.Outcome = domain.OutcomeFailed
		result.ErrorDetail = fmt.Sprintf("%v: %s", domain.ErrSynthesisFailed, entry.SynthesisError)
		return result
	}
	if entry.Content == "" {
		result.Outcome = domain.OutcomeFailed
		result.ErrorDetail = "no synthesized content"
		return result
	}

	var (
		url string
		err error
	)
	switch entry.Action {
	case domain.ActionCreatePage:
		url, err = x.createPage(ctx, entry, meta)
		result.Entry.TargetPage = entry.Title
	case domain.ActionUpdatePage:
		url, err = x.updatePage(ctx, entry, inv)
	case domain.ActionAppendPage:
		url, err = x.appendToPage(ctx, entry)
	default:
		err = fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, entry.Action)
	}

	if err != nil {
		logger.Warn("entry %s (%s) failed: %v", entry.ID, entry.Action, err)
		result.Outcome = domain.OutcomeFailed
		result.ErrorDetail = err.Error()
		return result
	}
	result.Outcome = domain.OutcomeApplied
	result.PageURL = url
	return result
}

// createPage writes a new page. A title collision re-derives a
// disambiguated title once; a second collision fails the entry rather
// than overwriting anything.
func (x *PlanExecutor) createPage(ctx context.Context, entry domain.PlanEntry, meta RunMeta) (string, error) {
	title := entry.Title
	if title == "" {
		title = DeriveTitle(entry.Concepts, meta)
	}

	err := x.store.WritePage(ctx, title, entry.Content, "")
	if errors.Is(err, domain.ErrAlreadyExists) {
		title = DisambiguateTitle(title, meta)
		logger.Info("page title taken, retrying as %q", title)
		err = x.store.WritePage(ctx, title, entry.Content, "")
	}
	if err != nil {
		return "", fmt.Errorf("create page %q: %w", title, err)
	}
	return x.store.PageURL(title), nil
}

// updatePage merges the synthesized section into the target page, guarded
// by optimistic concurrency: the fingerprint captured at inventory time
// must still match the stored page or the entry fails as a stale read.
func (x *PlanExecutor) updatePage(ctx context.Context, entry domain.PlanEntry, inv domain.WikiInventory) (string, error) {
	title := entry.TargetPages[0]
	snapshot, ok := inv.Get(title)
	if !ok {
		return "", fmt.Errorf("update page %q: %w", title, domain.ErrNotFound)
	}

	page, err := x.store.ReadPage(ctx, title)
	if err != nil {
		return "", fmt.Errorf("update page %q: %w", title, err)
	}
	if page.Fingerprint != snapshot.Fingerprint {
		return "", fmt.Errorf("update page %q: %w", title, domain.ErrStaleWrite)
	}

	merged := mergeContent(page.Content, entry.Content)
	if err := x.store.WritePage(ctx, title, merged, page.Fingerprint); err != nil {
		return "", fmt.Errorf("update page %q: %w", title, err)
	}
	return x.store.PageURL(title), nil
}

// appendToPage strictly adds content to the target page; existing text is
// never replaced. The write is conditional on the fingerprint read here,
// so a concurrent edit fails the entry instead of being clobbered.
func (x *PlanExecutor) appendToPage(ctx context.Context, entry domain.PlanEntry) (string, error) {
	title := entry.TargetPages[0]

	page, err := x.store.ReadPage(ctx, title)
	if err != nil {
		return "", fmt.Errorf("append to page %q: %w", title, err)
	}

	appended := strings.TrimRight(page.Content, "\n") + "\n\n" + entry.Content + "\n"
	if err := x.store.WritePage(ctx, title, appended, page.Fingerprint); err != nil {
		return "", fmt.Errorf("append to page %q: %w", title, err)
	}
	return x.store.PageURL(title), nil
}

// mergeContent folds a merge-ready section into existing page content.
// When the section's leading heading already exists in the page, that
// section is replaced up to the next heading of the same or higher
// level; otherwise the new section is appended.
func mergeContent(existing, section string) string {
	heading, level := leadingHeading(section)
	if heading == "" {
		return strings.TrimRight(existing, "\n") + "\n\n" + section + "\n"
	}

	lines := strings.Split(existing, "\n")
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == heading {
			start = i
			break
		}
	}
	if start < 0 {
		return strings.TrimRight(existing, "\n") + "\n\n" + section + "\n"
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if l := headingLevel(lines[i]); l > 0 && l <= level {
			end = i
			break
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines[:start], "\n"))
	if start > 0 {
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimRight(section, "\n"))
	if end < len(lines) {
		b.WriteString("\n\n")
		b.WriteString(strings.TrimLeft(strings.Join(lines[end:], "\n"), "\n"))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// leadingHeading returns the first line of a section if it is a markdown
// heading, plus its level.
func leadingHeading(section string) (string, int) {
	first := section
	if i := strings.Index(section, "\n"); i >= 0 {
		first = section[:i]
	}
	first = strings.TrimSpace(first)
	if level := headingLevel(first); level > 0 {
		return first, level
	}
	return "", 0
}

func headingLevel(line string) int {
	trimmed := strings.TrimSpace(line)
	level := 0
	for _, r := range trimmed {
		if r != '#' {
			break
		}
		level++
	}
	if level == 0 || level >= len(trimmed) || trimmed[level] != ' ' {
		return 0
	}
	return level
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
	"github.com/driftdocs/docsync-cli/internal/logger"
)

const (
	// synthesisMaxTokens is the generation budget for page content.
	synthesisMaxTokens = 3000

	// synthesisDiffBudget bounds the combined diff context per entry.
	synthesisDiffBudget = 12000
)

// RunMeta carries run identity into synthesized content and derived titles.
type RunMeta struct {
	Base string
	Head string
	Date time.Time
}

// shortRef abbreviates a commit reference for headings and titles.
func shortRef(ref string) string {
	if len(ref) > 8 {
		return ref[:8]
	}
	return ref
}

// ContentSynthesizer produces page content for non-skip plan entries via
// the third judgment call.
type ContentSynthesizer struct {
	judge   driven.JudgmentService
	prompts driven.PromptStore
}

// NewContentSynthesizer creates a synthesizer.
func NewContentSynthesizer(judge driven.JudgmentService, prompts driven.PromptStore) *ContentSynthesizer {
	return &ContentSynthesizer{judge: judge, prompts: prompts}
}

// Synthesize fills in the entry's content (and derived title for create
// entries) exactly once. On judgment failure it records the failure on
// the entry so execution reports it as failed instead of silently
// skipping it.
func (s *ContentSynthesizer) Synthesize(ctx context.Context, entry *domain.PlanEntry, changes []domain.ChangeRecord, meta RunMeta) error {
	if entry.IsSkip() {
		return nil
	}

	diffContext := diffContextFor(entry.Concepts, changes)
	concepts := strings.Join(entry.Concepts, ", ")

	var prompt string
	switch entry.Action {
	case domain.ActionCreatePage:
		prompt = fmt.Sprintf(s.loadPrompt(driven.PromptContentCreate, defaultContentCreatePrompt), concepts, diffContext)
	case domain.ActionUpdatePage:
		prompt = fmt.Sprintf(s.loadPrompt(driven.PromptContentUpdate, defaultContentUpdatePrompt), firstTarget(entry), concepts, diffContext)
	case domain.ActionAppendPage:
		prompt = fmt.Sprintf(s.loadPrompt(driven.PromptContentAppend, defaultContentAppendPrompt), firstTarget(entry), concepts, diffContext)
	default:
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, entry.Action)
	}

	raw, err := s.judge.Judge(ctx, prompt, driven.JudgeOptions{
		MaxTokens:   synthesisMaxTokens,
		Temperature: judgeTemperature,
	})
	if err != nil {
		entry.SynthesisError = err.Error()
		return fmt.Errorf("%w: %v", domain.ErrSynthesisFailed, err)
	}

	body := strings.TrimSpace(StripCodeFence(raw))
	if body == "" {
		entry.SynthesisError = "empty response"
		return fmt.Errorf("%w: empty response", domain.ErrSynthesisFailed)
	}

	switch entry.Action {
	case domain.ActionCreatePage:
		entry.Title = DeriveTitle(entry.Concepts, meta)
		entry.Content = metadataHeader(entry.Title, meta) + body
	case domain.ActionAppendPage:
		entry.Content = fmt.Sprintf("## Update %s (%s)\n\n%s",
			meta.Date.Format("2006-01-02"), shortRef(meta.Head), body)
	default:
		entry.Content = body
	}

	if !mentionsAnyConcept(entry.Content, entry.Concepts) {
		logger.Warn("synthesized content for entry %s does not mention any affected concept", entry.ID)
	}
	return nil
}

// DeriveTitle chooses the title for a created page from the affected
// concepts, falling back to a commit-range title.
func DeriveTitle(concepts []string, meta RunMeta) string {
	for _, c := range concepts {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		return titleCase(c)
	}
	return fmt.Sprintf("Data Changes %s-%s", meta.Date.Format("2006-01-02"), shortRef(meta.Head))
}

// DisambiguateTitle derives an alternative title when the first choice
// already exists in the store.
func DisambiguateTitle(title string, meta RunMeta) string {
	return fmt.Sprintf("%s (%s-%s)", title, meta.Date.Format("2006-01-02"), shortRef(meta.Head))
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && 'a' <= r[0] && r[0] <= 'z' {
			r[0] = r[0] - 'a' + 'A'
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// metadataHeader mirrors the audit header the store keeps on generated
// pages: commit range, date, then the body.
func metadataHeader(title string, meta RunMeta) string {
	return fmt.Sprintf("# %s\n\n**Commits:** `%s..%s`\n**Date:** %s\n\n---\n\n",
		title, shortRef(meta.Base), shortRef(meta.Head), meta.Date.Format("2006-01-02"))
}

// diffContextFor selects the change records relevant to the entry's
// concepts and joins their diffs within the synthesis budget. When no
// record matches, the full change set is used.
func diffContextFor(concepts []string, changes []domain.ChangeRecord) string {
	relevant := changes
	if len(concepts) > 0 {
		var matched []domain.ChangeRecord
		for _, c := range changes {
			probe := domain.PageSummary{Title: c.Path, Fingerprint: c.DiffText}
			for _, concept := range concepts {
				if domain.ConceptOverlaps(concept, probe) {
					matched = append(matched, c)
					break
				}
			}
		}
		if len(matched) > 0 {
			relevant = matched
		}
	}

	var b strings.Builder
	for _, c := range relevant {
		fmt.Fprintf(&b, "--- %s (%s) ---\n%s\n", c.Path, c.Kind, c.DiffText)
	}
	return domain.TruncateDiff(strings.TrimRight(b.String(), "\n"), synthesisDiffBudget)
}

func mentionsAnyConcept(content string, concepts []string) bool {
	if len(concepts) == 0 {
		return true
	}
	probe := domain.PageSummary{Fingerprint: strings.ToLower(content)}
	for _, c := range concepts {
		if domain.ConceptOverlaps(c, probe) {
			return true
		}
	}
	return false
}

func firstTarget(entry *domain.PlanEntry) string {
	if len(entry.TargetPages) > 0 {
		return entry.TargetPages[0]
	}
	return ""
}

func (s *ContentSynthesizer) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// defaultContentCreatePrompt is the fallback when no PromptStore is configured.
const defaultContentCreatePrompt = `Write a new wiki documentation page covering these data concepts: %s

CODE CHANGES:
%s

Cover, where applicable: a summary from a data perspective, database schema
changes (tables, columns, types, constraints), query changes, data flow and
usage, and API/consumer impact. Always state the concrete structural facts:
exact column names and types, table names, endpoint paths and methods.

Format as Markdown with ## section headers. Use tables for column
definitions. Respond with ONLY the page body, no surrounding commentary.`

// defaultContentUpdatePrompt is the fallback when no PromptStore is configured.
const defaultContentUpdatePrompt = `Write a replacement section for the wiki page %q reflecting changes to
these data concepts: %s

CODE CHANGES:
%s

Begin with a ## header matching the section being revised. State the
concrete structural facts: exact column names and types, table names,
endpoint paths and methods, before and after where relevant.
Respond with ONLY the section, no surrounding commentary.`

// defaultContentAppendPrompt is the fallback when no PromptStore is configured.
const defaultContentAppendPrompt = `Write a short addition for the wiki page %q documenting these new data
concepts: %s

CODE CHANGES:
%s

State the concrete structural facts: exact column names and types, table
names, endpoint paths and methods, and the business purpose where it can be
inferred. Do not restate what the page already covers.
Respond with ONLY the addition as Markdown, no heading, no commentary.`

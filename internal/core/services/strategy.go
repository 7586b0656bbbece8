package services

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
	"github.com/driftdocs/docsync-cli/internal/logger"
)

const (
	// judgeMaxTokens is the generation budget for decision calls.
	judgeMaxTokens = 1024

	// judgeTemperature keeps decision calls near-deterministic.
	judgeTemperature = 0.2

	// promptDiffExcerpt bounds the per-file diff excerpt inside decision
	// prompts; full (already bounded) diffs are reserved for synthesis.
	promptDiffExcerpt = 600
)

// clarifyReprompt is appended when a judgment response fails validation.
const clarifyReprompt = `

Your previous response could not be parsed. Respond with ONLY a valid JSON
object matching the requested schema. No markdown fences, no commentary.`

// StrategyEngine is the decision core: gap detection (stage A) followed
// by strategy selection (stage B), each validated against a strict
// schema with one retry and a conservative fallback. A malformed model
// response never crashes a run.
type StrategyEngine struct {
	judge   driven.JudgmentService
	prompts driven.PromptStore
}

// NewStrategyEngine creates the decision engine.
func NewStrategyEngine(judge driven.JudgmentService, prompts driven.PromptStore) *StrategyEngine {
	return &StrategyEngine{judge: judge, prompts: prompts}
}

// gapResponse is the strict schema for stage A responses.
type gapResponse struct {
	NeedsDocumentation *bool    `json:"needs_documentation"`
	Reasoning          string   `json:"reasoning"`
	AffectedConcepts   []string `json:"affected_concepts"`
}

// strategyResponse is the strict schema for stage B responses.
type strategyResponse struct {
	ChangeNature        string            `json:"change_nature"`
	ContentType         string            `json:"content_type"`
	Rationale           string            `json:"rationale"`
	ConceptContentTypes map[string]string `json:"concept_content_types,omitempty"`
}

// DetectGap runs stage A: it describes the inventory and the change set
// to the judgment capability and validates the returned GapAssessment.
// Malformed responses are retried once with a clarifying re-prompt, then
// degrade to the conservative assessment.
func (s *StrategyEngine) DetectGap(ctx context.Context, inv domain.WikiInventory, changes []domain.ChangeRecord) domain.GapAssessment {
	prompt := fmt.Sprintf(
		s.loadPrompt(driven.PromptGapDetection, defaultGapDetectionPrompt),
		describeInventory(inv),
		describeChanges(changes),
	)

	var resp gapResponse
	if err := s.judgeValidated(ctx, prompt, &resp, func() error {
		if resp.NeedsDocumentation == nil {
			return fmt.Errorf("%w: needs_documentation missing", domain.ErrJudgmentParse)
		}
		return nil
	}); err != nil {
		logger.Warn("gap detection degraded to conservative assessment: %v", err)
		return domain.ConservativeAssessment()
	}

	assessment := domain.GapAssessment{
		NeedsDocumentation: *resp.NeedsDocumentation,
		Reasoning:          strings.TrimSpace(resp.Reasoning),
		AffectedConcepts:   cleanConcepts(resp.AffectedConcepts),
	}
	logger.Info("gap detection: needs_documentation=%v concepts=%v",
		assessment.NeedsDocumentation, assessment.AffectedConcepts)
	return assessment
}

// SelectStrategy runs stage B and derives plan entries from the
// deterministic overlap policy:
//
//   - no overlapping page            -> create_new_page
//   - one page, additive change      -> append_to_page
//   - one page, restructuring change -> update_existing_page
//   - several pages                  -> one update entry per page
//
// A malformed response after the retry budget degrades to a single skip
// entry.
func (s *StrategyEngine) SelectStrategy(ctx context.Context, gap domain.GapAssessment, inv domain.WikiInventory) domain.Plan {
	prompt := fmt.Sprintf(
		s.loadPrompt(driven.PromptStrategySelection, defaultStrategySelectionPrompt),
		gap.Reasoning,
		strings.Join(gap.AffectedConcepts, ", "),
		describeInventory(inv),
	)

	var resp strategyResponse
	if err := s.judgeValidated(ctx, prompt, &resp, func() error {
		switch resp.ChangeNature {
		case "additive", "restructuring":
			return nil
		default:
			return fmt.Errorf("%w: change_nature %q", domain.ErrJudgmentParse, resp.ChangeNature)
		}
	}); err != nil {
		logger.Warn("strategy selection degraded to skip: %v", err)
		return domain.SkipPlan(uuid.NewString(), "unparseable strategy response")
	}

	plan := s.derivePlan(gap, inv, resp)
	plan.Normalize(inv)
	return plan
}

// derivePlan applies the overlap policy to the validated stage B response.
func (s *StrategyEngine) derivePlan(gap domain.GapAssessment, inv domain.WikiInventory, resp strategyResponse) domain.Plan {
	overlapping := domain.OverlappingPages(gap.AffectedConcepts, inv)
	contentType := parseContentType(resp.ContentType)
	rationale := strings.TrimSpace(resp.Rationale)
	if rationale == "" {
		rationale = gap.Reasoning
	}

	switch len(overlapping) {
	case 0:
		return domain.Plan{Entries: []domain.PlanEntry{{
			ID:          uuid.NewString(),
			Action:      domain.ActionCreatePage,
			ContentType: contentType,
			Rationale:   rationale,
			Concepts:    gap.AffectedConcepts,
		}}}
	case 1:
		action := domain.ActionUpdatePage
		if resp.ChangeNature == "additive" {
			action = domain.ActionAppendPage
		}
		return domain.Plan{Entries: []domain.PlanEntry{{
			ID:          uuid.NewString(),
			Action:      action,
			TargetPages: []string{overlapping[0].Title},
			ContentType: contentType,
			Rationale:   rationale,
			Concepts:    gap.AffectedConcepts,
		}}}
	default:
		// update_multiple_pages is modeled as independent per-page
		// entries so the executor stays a uniform loop.
		entries := make([]domain.PlanEntry, 0, len(overlapping))
		for _, page := range overlapping {
			concepts := conceptsForPage(gap.AffectedConcepts, page)
			entries = append(entries, domain.PlanEntry{
				ID:          uuid.NewString(),
				Action:      domain.ActionUpdatePage,
				TargetPages: []string{page.Title},
				ContentType: entryContentType(concepts, resp, contentType),
				Rationale:   rationale,
				Concepts:    concepts,
			})
		}
		return domain.Plan{Entries: entries}
	}
}

// BuildPlan runs the two-stage protocol for one run. An empty change set
// short-circuits to a skip plan without any judgment call: no concept can
// be new with no change. Forced mode skips stage A.
func (s *StrategyEngine) BuildPlan(ctx context.Context, inv domain.WikiInventory, changes []domain.ChangeRecord, force bool) (domain.GapAssessment, domain.Plan) {
	if len(changes) == 0 {
		assessment := domain.GapAssessment{Reasoning: "no code changes"}
		return assessment, domain.SkipPlan(uuid.NewString(), "no code changes")
	}

	var gap domain.GapAssessment
	if force {
		gap = domain.GapAssessment{
			NeedsDocumentation: true,
			Reasoning:          "documentation forced by caller",
			AffectedConcepts:   conceptsFromPaths(changes),
		}
	} else {
		gap = s.DetectGap(ctx, inv, changes)
	}

	if !gap.NeedsDocumentation {
		return gap, domain.SkipPlan(uuid.NewString(), gap.Reasoning)
	}

	return gap, s.SelectStrategy(ctx, gap, inv)
}

// judgeValidated performs one judgment call with the validate-or-retry
// discipline: parse failure or a failed validation triggers a single
// clarifying re-prompt before the error is returned.
func (s *StrategyEngine) judgeValidated(ctx context.Context, prompt string, v any, validate func() error) error {
	opts := driven.JudgeOptions{MaxTokens: judgeMaxTokens, Temperature: judgeTemperature}

	attempt := func(p string) error {
		raw, err := s.judge.Judge(ctx, p, opts)
		if err != nil {
			return fmt.Errorf("judgment call: %w", err)
		}
		if err := decodeJudgment(raw, v); err != nil {
			return err
		}
		return validate()
	}

	err := attempt(prompt)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return err
	}

	logger.Debug("judgment response invalid, re-prompting once: %v", err)
	// Fields a partially valid first response decoded must not leak into
	// the accepted retry result.
	reflect.ValueOf(v).Elem().SetZero()
	return attempt(prompt + clarifyReprompt)
}

func (s *StrategyEngine) loadPrompt(name, fallback string) string {
	if s.prompts == nil {
		return fallback
	}
	prompt, err := s.prompts.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// describeInventory renders a bounded natural-language inventory listing.
func describeInventory(inv domain.WikiInventory) string {
	if inv.Len() == 0 {
		return "(no existing documentation pages)"
	}
	var b strings.Builder
	for _, p := range inv.Pages() {
		fmt.Fprintf(&b, "- %q (%d chars): %s\n", p.Title, p.ApproximateSize, p.Fingerprint)
	}
	return strings.TrimRight(b.String(), "\n")
}

// describeChanges renders a bounded change listing with diff excerpts.
func describeChanges(changes []domain.ChangeRecord) string {
	var b strings.Builder
	for _, c := range changes {
		fmt.Fprintf(&b, "- %s (%s)\n", c.Path, c.Kind)
		excerpt := domain.TruncateDiff(c.DiffText, promptDiffExcerpt)
		if excerpt != "" {
			fmt.Fprintf(&b, "%s\n", excerpt)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// conceptsForPage returns the concepts that overlap a page, falling back
// to all concepts when the page was matched through a combination.
func conceptsForPage(concepts []string, page domain.PageSummary) []string {
	var out []string
	for _, c := range concepts {
		if domain.ConceptOverlaps(c, page) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return concepts
	}
	return out
}

// entryContentType picks a per-entry content type when the stage B
// response classified concepts individually.
func entryContentType(concepts []string, resp strategyResponse, fallback domain.ContentType) domain.ContentType {
	for _, c := range concepts {
		if ct, ok := resp.ConceptContentTypes[c]; ok {
			return parseContentType(ct)
		}
	}
	return fallback
}

func parseContentType(s string) domain.ContentType {
	switch domain.ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case domain.ContentSchema:
		return domain.ContentSchema
	case domain.ContentAPI:
		return domain.ContentAPI
	case domain.ContentDataflow:
		return domain.ContentDataflow
	default:
		return domain.ContentOther
	}
}

func cleanConcepts(concepts []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, c := range concepts {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// conceptsFromPaths derives rough concepts for forced runs where stage A
// never produced any.
func conceptsFromPaths(changes []domain.ChangeRecord) []string {
	var out []string
	for _, c := range changes {
		base := c.Path
		if i := strings.LastIndex(base, "/"); i >= 0 {
			base = base[i+1:]
		}
		if i := strings.LastIndex(base, "."); i > 0 {
			base = base[:i]
		}
		if base != "" {
			out = append(out, base)
		}
	}
	return cleanConcepts(out)
}

// defaultGapDetectionPrompt is the fallback when no PromptStore is configured.
const defaultGapDetectionPrompt = `Analyze the following code changes to determine if they contain data-related
modifications that would benefit from documentation: schema changes, query
changes, data mapping, API response changes, data processing logic,
configuration of data sources, or migration scripts. Changes that are purely
UI, styling or logging are not relevant.

EXISTING DOCUMENTATION PAGES:
%s

CODE CHANGES:
%s

Respond with ONLY a JSON object:
{
  "needs_documentation": true or false,
  "reasoning": "one or two sentences",
  "affected_concepts": ["short names of the data concepts touched, e.g. \"posts table\""]
}`

// defaultStrategySelectionPrompt is the fallback when no PromptStore is configured.
const defaultStrategySelectionPrompt = `A code change needs documentation.

Assessment: %s
Affected concepts: %s

EXISTING DOCUMENTATION PAGES:
%s

Classify the change and respond with ONLY a JSON object:
{
  "change_nature": "additive" or "restructuring",
  "content_type": "schema", "api", "dataflow" or "other",
  "rationale": "one sentence",
  "concept_content_types": {"concept": "content_type"} (optional, when concepts differ in kind)
}

"additive" means new fields, endpoints or tables are introduced without
altering documented structures. "restructuring" means already-documented
structures change shape (renamed or retyped columns, altered endpoint
signatures).`

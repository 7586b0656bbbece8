package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#7C3AED"))

	summaryMutedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6C7086"))

	outcomeStyles = map[domain.Outcome]lipgloss.Style{
		domain.OutcomeApplied: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		domain.OutcomeSkipped: lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		domain.OutcomeFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
	}
)

// renderSummary formats a run summary for terminal output.
func renderSummary(summary *domain.RunSummary) string {
	var b strings.Builder

	header := fmt.Sprintf("Run %s", summary.RunID)
	if summary.DryRun {
		header += " (dry run)"
	}
	b.WriteString(summaryTitleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(summaryMutedStyle.Render(fmt.Sprintf("%s  %s..%s", summary.Repository, summary.Base, summary.Head)))
	b.WriteString("\n\n")

	if !summary.Assessment.NeedsDocumentation {
		b.WriteString("No documentation gap detected.\n")
		if summary.Assessment.Reasoning != "" {
			b.WriteString(summaryMutedStyle.Render(summary.Assessment.Reasoning))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Documentation gap: %s\n", summary.Assessment.Reasoning))
	if len(summary.Assessment.AffectedConcepts) > 0 {
		b.WriteString(summaryMutedStyle.Render("Concepts: " + strings.Join(summary.Assessment.AffectedConcepts, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if summary.DryRun {
		renderPlanEntries(&b, summary.Plan)
		return b.String()
	}

	for _, r := range summary.Results {
		style, ok := outcomeStyles[r.Outcome]
		if !ok {
			style = summaryMutedStyle
		}
		b.WriteString(fmt.Sprintf("  %s  %s", style.Render(string(r.Outcome)), describeEntry(r.Entry)))
		if r.PageURL != "" {
			b.WriteString("\n" + summaryMutedStyle.Render("           "+r.PageURL))
		}
		if r.ErrorDetail != "" {
			b.WriteString("\n" + summaryMutedStyle.Render("           "+r.ErrorDetail))
		}
		b.WriteString("\n")
	}

	applied, skipped, failed := summary.Counts()
	b.WriteString(fmt.Sprintf("\n%d applied, %d skipped, %d failed\n", applied, skipped, failed))
	return b.String()
}

// renderPlanEntries lists the planned actions for a dry run.
func renderPlanEntries(b *strings.Builder, plan domain.Plan) {
	b.WriteString("Planned actions:\n")
	for _, e := range plan.Entries {
		b.WriteString("  " + describePlanEntry(e) + "\n")
		if e.Rationale != "" {
			b.WriteString(summaryMutedStyle.Render("    "+e.Rationale) + "\n")
		}
	}
}

func describeEntry(e domain.ExecutedEntry) string {
	switch e.Action {
	case domain.ActionSkip:
		return "skip"
	case domain.ActionCreatePage:
		return fmt.Sprintf("create page (%s)", e.ContentType)
	default:
		return fmt.Sprintf("%s %q (%s)", actionVerb(e.Action), e.TargetPage, e.ContentType)
	}
}

func describePlanEntry(e domain.PlanEntry) string {
	switch e.Action {
	case domain.ActionSkip:
		return "skip"
	case domain.ActionCreatePage:
		title := e.Title
		if title == "" {
			title = "(title pending)"
		}
		return fmt.Sprintf("create %q (%s)", title, e.ContentType)
	default:
		return fmt.Sprintf("%s %q (%s)", actionVerb(e.Action), strings.Join(e.TargetPages, ", "), e.ContentType)
	}
}

func actionVerb(a domain.Action) string {
	switch a {
	case domain.ActionUpdatePage:
		return "update"
	case domain.ActionAppendPage:
		return "append to"
	default:
		return string(a)
	}
}

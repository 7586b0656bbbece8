// Package tui implements the interactive plan review flow using bubbletea.
//
// The review flow is driven through the pipeline's entry filter: before
// each plan entry is executed, the reviewer presents it with its
// synthesized content and waits for an apply or skip decision. "Apply all"
// and "skip rest" short-circuit the remaining entries without further
// prompting.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
)

// decision is the outcome of reviewing one entry.
type decision int

const (
	decisionPending decision = iota
	decisionApprove
	decisionSkip
	decisionApproveAll
	decisionSkipRest
)

// previewLines bounds the content preview so long pages stay readable.
const previewLines = 16

// Reviewer presents plan entries one at a time for interactive approval.
// It satisfies the pipeline's entry filter contract.
type Reviewer struct {
	in  io.Reader
	out io.Writer

	approveAll bool
	skipRest   bool
}

// NewReviewer creates a reviewer reading keys from in and rendering to out.
func NewReviewer(in io.Reader, out io.Writer) *Reviewer {
	return &Reviewer{in: in, out: out}
}

// Approve presents one entry and reports whether it should be executed.
// A reviewer that failed to render errs on the side of not writing.
func (r *Reviewer) Approve(entry domain.PlanEntry) bool {
	if r.approveAll {
		return true
	}
	if r.skipRest {
		return false
	}

	model := newReviewModel(entry)
	p := tea.NewProgram(model, tea.WithInput(r.in), tea.WithOutput(r.out))
	final, err := p.Run()
	if err != nil {
		r.skipRest = true
		return false
	}

	result, ok := final.(reviewModel)
	if !ok {
		r.skipRest = true
		return false
	}

	switch result.decision {
	case decisionApprove:
		return true
	case decisionApproveAll:
		r.approveAll = true
		return true
	case decisionSkipRest:
		r.skipRest = true
		return false
	default:
		return false
	}
}

// reviewModel is the bubbletea model for reviewing a single entry.
type reviewModel struct {
	entry    domain.PlanEntry
	keys     *KeyMap
	styles   *Styles
	decision decision
}

func newReviewModel(entry domain.PlanEntry) reviewModel {
	return reviewModel{
		entry:  entry,
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
	}
}

// Init implements tea.Model.
func (m reviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Approve):
		m.decision = decisionApprove
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Skip):
		m.decision = decisionSkip
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.ApproveAll):
		m.decision = decisionApproveAll
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Quit):
		m.decision = decisionSkipRest
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m reviewModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(describeAction(m.entry)))
	b.WriteString("\n\n")

	if m.entry.Rationale != "" {
		b.WriteString(m.styles.Label.Render("Why: "))
		b.WriteString(m.entry.Rationale)
		b.WriteString("\n")
	}
	if len(m.entry.Concepts) > 0 {
		b.WriteString(m.styles.Label.Render("Concepts: "))
		b.WriteString(strings.Join(m.entry.Concepts, ", "))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.entry.Content != "" {
		b.WriteString(m.styles.Content.Render(previewContent(m.entry.Content)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.styles.Help.Render("y apply · n skip · a apply all · q skip rest"))
	b.WriteString("\n")
	return b.String()
}

// describeAction renders the entry header line.
func describeAction(e domain.PlanEntry) string {
	switch e.Action {
	case domain.ActionCreatePage:
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		return fmt.Sprintf("Create page %q (%s)", title, e.ContentType)
	case domain.ActionUpdatePage:
		return fmt.Sprintf("Update %q (%s)", strings.Join(e.TargetPages, ", "), e.ContentType)
	case domain.ActionAppendPage:
		return fmt.Sprintf("Append to %q (%s)", strings.Join(e.TargetPages, ", "), e.ContentType)
	default:
		return string(e.Action)
	}
}

// previewContent truncates the synthesized content to a readable preview.
func previewContent(content string) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) <= previewLines {
		return strings.Join(lines, "\n")
	}
	truncated := append(lines[:previewLines:previewLines],
		fmt.Sprintf("... (%d more lines)", len(lines)-previewLines))
	return strings.Join(truncated, "\n")
}

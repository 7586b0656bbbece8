package domain

// Action is the documentation action chosen for one plan entry.
type Action string

// Plan entry actions.
const (
	ActionCreatePage Action = "create_new_page"
	ActionUpdatePage Action = "update_existing_page"
	ActionAppendPage Action = "append_to_page"
	ActionSkip       Action = "skip"
)

// ContentType classifies what kind of documentation an entry produces.
type ContentType string

// Content types.
const (
	ContentSchema   ContentType = "schema"
	ContentAPI      ContentType = "api"
	ContentDataflow ContentType = "dataflow"
	ContentOther    ContentType = "other"
)

// PlanEntry is one discrete documentation action. Entries are built once
// by strategy selection and acquire synthesized content exactly once
// before execution.
type PlanEntry struct {
	// ID identifies the entry within the run's audit log.
	ID string `json:"id"`

	// Action is the chosen documentation action.
	Action Action `json:"action"`

	// TargetPages are existing page titles the entry writes to. Empty
	// for create_new_page (the title is derived during synthesis) and
	// for skip.
	TargetPages []string `json:"target_pages,omitempty"`

	// ContentType classifies the documentation produced.
	ContentType ContentType `json:"content_type"`

	// Rationale is the judgment's explanation for the action.
	Rationale string `json:"rationale,omitempty"`

	// Concepts are the affected concepts that motivated this entry.
	Concepts []string `json:"concepts,omitempty"`

	// Title is the derived page title for create_new_page entries,
	// set during content synthesis.
	Title string `json:"title,omitempty"`

	// Content is the synthesized page body or fragment. Set exactly once
	// between planning and execution.
	Content string `json:"content,omitempty"`

	// SynthesisError records a content synthesis failure. The executor
	// reports such entries as failed rather than silently skipping them.
	SynthesisError string `json:"synthesis_error,omitempty"`
}

// Plan is the ordered documentation action plan for one run. It is built
// once and never mutated after hand-off except for content acquisition.
type Plan struct {
	Entries []PlanEntry `json:"entries"`
}

// IsSkip reports whether the entry is a no-op.
func (e PlanEntry) IsSkip() bool {
	return e.Action == ActionSkip
}

// Normalize enforces the plan invariants against the inventory snapshot:
//
//   - skip and create entries carry no target pages
//   - update/append targets must exist in the inventory; entries whose
//     targets all vanished are downgraded to create_new_page
//   - no two entries reference the same target page
func (p *Plan) Normalize(inv WikiInventory) {
	seen := make(map[string]struct{})
	for i := range p.Entries {
		e := &p.Entries[i]
		switch e.Action {
		case ActionSkip, ActionCreatePage:
			e.TargetPages = nil
		case ActionUpdatePage, ActionAppendPage:
			var valid []string
			for _, t := range e.TargetPages {
				if !inv.Has(t) {
					continue
				}
				if _, dup := seen[t]; dup {
					continue
				}
				seen[t] = struct{}{}
				valid = append(valid, t)
			}
			if len(valid) == 0 {
				e.Action = ActionCreatePage
				e.TargetPages = nil
				continue
			}
			e.TargetPages = valid
		}
	}
}

// SkipPlan returns a plan consisting of a single skip entry.
func SkipPlan(id, rationale string) Plan {
	return Plan{Entries: []PlanEntry{{
		ID:          id,
		Action:      ActionSkip,
		ContentType: ContentOther,
		Rationale:   rationale,
	}}}
}

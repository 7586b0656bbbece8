package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptGapDetection decides whether a change set needs documentation.
	// The template expects %s (page inventory) and %s (change listing).
	PromptGapDetection = "gap_detection"

	// PromptStrategySelection classifies the change for strategy selection.
	// The template expects %s (gap reasoning), %s (concepts) and
	// %s (page inventory).
	PromptStrategySelection = "strategy_selection"

	// PromptContentCreate renders a full new page body.
	// The template expects %s (concepts), %s (diff context).
	PromptContentCreate = "content_create"

	// PromptContentUpdate renders a merge-ready section for an existing page.
	// The template expects %s (page title), %s (concepts), %s (diff context).
	PromptContentUpdate = "content_update"

	// PromptContentAppend renders an appendable section.
	// The template expects %s (page title), %s (concepts), %s (diff context).
	PromptContentAppend = "content_append"
)

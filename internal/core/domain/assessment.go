package domain

import "strings"

// GapAssessment is the judgment capability's verdict on whether a change
// set introduces concepts missing from the current documentation.
// Derived and ephemeral: consumed only by strategy selection.
type GapAssessment struct {
	// NeedsDocumentation is true when the change warrants a doc update.
	NeedsDocumentation bool

	// Reasoning is the judgment's free-text explanation.
	Reasoning string

	// AffectedConcepts names the data concepts the change touches,
	// e.g. "posts table" or "GET /posts endpoint".
	AffectedConcepts []string
}

// ConservativeAssessment is the fallback when the judgment response is
// unparseable after the retry budget: assume no documentation is needed
// rather than crashing the run.
func ConservativeAssessment() GapAssessment {
	return GapAssessment{
		NeedsDocumentation: false,
		Reasoning:          "unparseable response",
	}
}

// conceptStopwords are tokens too generic to indicate overlap on their own.
var conceptStopwords = map[string]struct{}{
	"table": {}, "column": {}, "field": {}, "endpoint": {}, "query": {},
	"data": {}, "schema": {}, "index": {}, "page": {}, "api": {},
	"with": {}, "from": {}, "into": {},
}

// ConceptOverlaps reports whether a concept overlaps a page: the whole
// normalized concept appears in the title or fingerprint, or any
// non-generic concept token of length >= 4 does.
func ConceptOverlaps(concept string, page PageSummary) bool {
	c := strings.ToLower(strings.TrimSpace(concept))
	if c == "" {
		return false
	}
	title := strings.ToLower(page.Title)
	fp := strings.ToLower(page.Fingerprint)

	if strings.Contains(title, c) || strings.Contains(fp, c) {
		return true
	}
	for _, tok := range strings.FieldsFunc(c, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '_')
	}) {
		if len(tok) < 4 {
			continue
		}
		if _, generic := conceptStopwords[tok]; generic {
			continue
		}
		if strings.Contains(title, tok) || strings.Contains(fp, tok) {
			return true
		}
	}
	return false
}

// OverlappingPages returns the inventory pages any of the concepts
// overlap, sorted by preference (PreferPage order).
func OverlappingPages(concepts []string, inv WikiInventory) []PageSummary {
	seen := make(map[string]struct{})
	var out []PageSummary
	for _, page := range inv.Pages() {
		for _, concept := range concepts {
			if ConceptOverlaps(concept, page) {
				if _, dup := seen[page.Title]; !dup {
					seen[page.Title] = struct{}{}
					out = append(out, page)
				}
				break
			}
		}
	}
	// Preference order: freshest first, then larger.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && PreferPage(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

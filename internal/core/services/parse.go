package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
)

// Models wrap JSON responses in markdown fences often enough that every
// judgment response goes through fence stripping before validation.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*\n(.*?)\n```")

// StripCodeFence removes a surrounding markdown code fence from a
// judgment response, returning the inner text. Responses without a fence
// are returned trimmed.
func StripCodeFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	if m := fencedJSON.FindStringSubmatch(cleaned); m != nil {
		return strings.TrimSpace(m[1])
	}
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// decodeJudgment validates an untrusted judgment response against the
// expected JSON shape. It strips markdown fences, and if the response
// still is not a bare JSON object, falls back to the outermost brace
// pair before giving up.
func decodeJudgment(raw string, v any) error {
	cleaned := StripCodeFence(raw)

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: not valid JSON", domain.ErrJudgmentParse)
}

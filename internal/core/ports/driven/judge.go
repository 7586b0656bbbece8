package driven

import "context"

// JudgmentService is the pluggable AI judgment capability. One synchronous
// call contract: prompt context in, untrusted text out. Callers must treat
// every response as untrusted and validate it against a strict schema.
//
// Implementations may include:
//   - Anthropic (Claude)
//   - OpenAI (GPT-4 family)
//   - Ollama (local models)
type JudgmentService interface {
	// Judge submits a prompt and returns the raw model response.
	Judge(ctx context.Context, prompt string, opts JudgeOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// request. Used by `config check` before committing to a run.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// JudgeOptions configures one judgment call.
type JudgeOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

package domain

// JudgeProvider identifies which model API answers judgment prompts.
type JudgeProvider string

// Supported judgment providers.
const (
	ProviderAnthropic JudgeProvider = "anthropic"
	ProviderOpenAI    JudgeProvider = "openai"
	ProviderOllama    JudgeProvider = "ollama"
)

// Valid reports whether the provider is one this build knows about.
func (p JudgeProvider) Valid() bool {
	switch p {
	case ProviderAnthropic, ProviderOpenAI, ProviderOllama:
		return true
	default:
		return false
	}
}

// JudgeSettings selects and configures the judgment provider.
type JudgeSettings struct {
	Provider JudgeProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// IsConfigured reports whether the settings are complete enough to
// build a service. Ollama runs locally and needs no key; the hosted
// providers do.
func (s *JudgeSettings) IsConfigured() bool {
	if s == nil || !s.Provider.Valid() {
		return false
	}
	if s.Provider == ProviderOllama {
		return true
	}
	return s.APIKey != ""
}

package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

// Well-known configuration keys.
const (
	// ConfigProvider selects the judgment provider: anthropic, openai, ollama.
	ConfigProvider = "provider"

	// ConfigModel overrides the provider's default model.
	ConfigModel = "model"

	// ConfigBaseURL overrides the provider's default endpoint, mainly
	// for ollama hosts.
	ConfigBaseURL = "base_url"

	// ConfigRepoOwner and ConfigRepoName identify the code repository.
	ConfigRepoOwner = "repo_owner"
	ConfigRepoName  = "repo_name"

	// ConfigWikiStore selects the documentation store: github or filesystem.
	ConfigWikiStore = "wiki_store"

	// ConfigWikiPath is the local wiki clone directory for the
	// filesystem store.
	ConfigWikiPath = "wiki_path"

	// ConfigDiffSource selects the diff source: git or github.
	ConfigDiffSource = "diff_source"

	// ConfigRepoPath is the local repository path for the git diff source.
	ConfigRepoPath = "repo_path"

	// ConfigMaxDiffChars bounds the per-file diff text handed to
	// judgment calls.
	ConfigMaxDiffChars = "max_diff_chars"

	// ConfigAPIKey stores the judgment provider API key. The environment
	// (ANTHROPIC_API_KEY / OPENAI_API_KEY) takes precedence.
	ConfigAPIKey = "api_key"

	// ConfigGitHubToken stores the GitHub token. GITHUB_TOKEN takes
	// precedence.
	ConfigGitHubToken = "github_token"
)

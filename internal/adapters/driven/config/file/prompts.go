package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads judgment prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
// They mirror the fallbacks compiled into the decision and synthesis services.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptGapDetection: `Analyze the following code changes to determine if they contain data-related
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
}`,

	driven.PromptStrategySelection: `A code change needs documentation.

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
signatures).`,

	driven.PromptContentCreate: `Write a new wiki documentation page covering these data concepts: %s

CODE CHANGES:
%s

Cover, where applicable: a summary from a data perspective, database schema
changes (tables, columns, types, constraints), query changes, data flow and
usage, and API/consumer impact. Always state the concrete structural facts:
exact column names and types, table names, endpoint paths and methods.

Format as Markdown with ## section headers. Use tables for column
definitions. Respond with ONLY the page body, no surrounding commentary.`,

	driven.PromptContentUpdate: `Write a replacement section for the wiki page %q reflecting changes to
these data concepts: %s

CODE CHANGES:
%s

Begin with a ## header matching the section being revised. State the
concrete structural facts: exact column names and types, table names,
endpoint paths and methods, before and after where relevant.
Respond with ONLY the section, no surrounding commentary.`,

	driven.PromptContentAppend: `Write a short addition for the wiki page %q documenting these new data
concepts: %s

CODE CHANGES:
%s

State the concrete structural facts: exact column names and types, table
names, endpoint paths and methods, and the business purpose where it can be
inferred. Do not restate what the page already covers.
Respond with ONLY the addition as Markdown, no heading, no commentary.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.docsync/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".docsync", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# docsync Prompts

This directory contains customisable prompts used by docsync's judgment
and synthesis stages.

## Files

- ` + "`gap_detection.txt`" + ` - Decides whether a change set needs documentation
- ` + "`strategy_selection.txt`" + ` - Classifies the change (additive vs restructuring)
- ` + "`content_create.txt`" + ` - Renders a full new page body
- ` + "`content_update.txt`" + ` - Renders a replacement section for an existing page
- ` + "`content_append.txt`" + ` - Renders an addition for an existing page

## Customisation

Edit any file to customise behaviour. Changes take effect on the next run.

## Format Placeholders

Prompts use Go fmt placeholders:
- ` + "`%s`" + ` - String (inventory, diff text, concepts)
- ` + "`%q`" + ` - Quoted string (target page title)

Ensure customised prompts maintain placeholders in the correct positions.
Prompts that ask for JSON must keep asking for the same JSON shape; the
decision engine validates the fields and falls back to a conservative
skip when they are missing.
`
	return os.WriteFile(path, []byte(content), 0600)
}

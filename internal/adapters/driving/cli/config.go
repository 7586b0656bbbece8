package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/driftdocs/docsync-cli/internal/adapters/driven/judge"
	"github.com/driftdocs/docsync-cli/internal/connectors/github"
	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage docsync configuration",
	Long: `View and configure the judgment provider, repository and wiki settings.

Use subcommands to set individual keys or run 'config set-key' to configure
the judgment provider interactively.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Well-known keys:

  provider        judgment provider: anthropic, openai, ollama
  model           judgment model override
  base_url        provider endpoint override (mainly for ollama)
  repo_owner      GitHub repository owner
  repo_name       GitHub repository name
  wiki_store      documentation store: github or filesystem
  wiki_path       local wiki directory for the filesystem store
  diff_source     diff source: git or github
  repo_path       local repository path for the git diff source
  max_diff_chars  per-file diff budget handed to the judge`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Configure the judgment provider interactively",
	RunE:  runConfigSetKey,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration",
	Long:  `Checks that the judgment provider is reachable and, when configured, that the GitHub token is valid.`,
	RunE:  runConfigCheck,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureConfig(); err != nil {
			return err
		}
		cmd.Println(configStore.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	cmd.Println("[Judge]")
	provider := configStore.GetString(driven.ConfigProvider)
	if provider == "" {
		provider = "(not set)"
	}
	cmd.Printf("  Provider: %s\n", provider)
	if model := configStore.GetString(driven.ConfigModel); model != "" {
		cmd.Printf("  Model: %s\n", model)
	}
	if baseURL := configStore.GetString(driven.ConfigBaseURL); baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if key := configStore.GetString(driven.ConfigAPIKey); key != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	settings := judgeSettingsFromConfig()
	status := "configured"
	if !settings.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Repository]")
	owner := configStore.GetString(driven.ConfigRepoOwner)
	name := configStore.GetString(driven.ConfigRepoName)
	if owner != "" && name != "" {
		cmd.Printf("  GitHub: %s/%s\n", owner, name)
	}
	if path := configStore.GetString(driven.ConfigRepoPath); path != "" {
		cmd.Printf("  Local path: %s\n", path)
	}
	if source := configStore.GetString(driven.ConfigDiffSource); source != "" {
		cmd.Printf("  Diff source: %s\n", source)
	}
	cmd.Println()

	cmd.Println("[Wiki]")
	if store := configStore.GetString(driven.ConfigWikiStore); store != "" {
		cmd.Printf("  Store: %s\n", store)
	}
	if path := configStore.GetString(driven.ConfigWikiPath); path != "" {
		cmd.Printf("  Path: %s\n", path)
	}
	if token := githubToken(); token != "" {
		cmd.Printf("  GitHub token: %s\n", maskAPIKey(token))
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	key, value := args[0], args[1]
	if key == driven.ConfigMaxDiffChars {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s expects an integer: %w", key, err)
		}
		if err := configStore.Set(key, n); err != nil {
			return err
		}
		cmd.Printf("Set %s\n", key)
		return nil
	}
	if err := configStore.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("%s is not set", args[0])
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSetKey(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select Judgment Provider")
	providers := []domain.JudgeProvider{
		domain.ProviderAnthropic,
		domain.ProviderOpenAI,
		domain.ProviderOllama,
	}
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p)
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selected := providers[idx-1]

	cmd.Print("Enter model name (empty for provider default): ")
	model := readLine(reader)

	var apiKey string
	if selected != domain.ProviderOllama {
		cmd.Print("Enter API key: ")
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := configStore.Set(driven.ConfigProvider, string(selected)); err != nil {
		return err
	}
	if err := configStore.Set(driven.ConfigModel, model); err != nil {
		return err
	}
	if apiKey != "" {
		if err := configStore.Set(driven.ConfigAPIKey, apiKey); err != nil {
			return err
		}
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := judge.ValidateJudgeConfig(judgeSettingsFromConfig()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("judge configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Judgment provider configured: %s\n", selected)
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	failed := false

	cmd.Print("Judgment provider... ")
	if err := judge.ValidateJudgeConfig(judgeSettingsFromConfig()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		failed = true
	} else {
		cmd.Println("OK")
	}

	if token := githubToken(); token != "" {
		cmd.Print("GitHub token... ")
		client := github.NewClient(cmd.Context(), token)
		if err := client.ValidateCredentials(cmd.Context()); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			failed = true
		} else {
			cmd.Println("OK")
		}
	}

	if failed {
		return errors.New("configuration check failed")
	}
	cmd.Println("Configuration is valid.")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

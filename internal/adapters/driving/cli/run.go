package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/driftdocs/docsync-cli/internal/adapters/driven/judge"
	"github.com/driftdocs/docsync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/driftdocs/docsync-cli/internal/adapters/driving/tui"
	"github.com/driftdocs/docsync-cli/internal/connectors/git"
	"github.com/driftdocs/docsync-cli/internal/connectors/github"
	"github.com/driftdocs/docsync-cli/internal/connectors/wikifs"
	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driving"
	"github.com/driftdocs/docsync-cli/internal/core/services"
)

// pipelineService is swappable in tests; when nil the run command wires
// the real pipeline from configuration.
var pipelineService driving.Pipeline

var (
	runBase     string
	runHead     string
	runDryRun   bool
	runForce    bool
	runReview   bool
	runProvider string
	runModel    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyse a diff and sync the documentation",
	Long: `Runs the documentation-sync pipeline: extracts the change set between
two commit references, scans the wiki inventory, judges whether the change
leaves a documentation gap, plans the wiki actions, synthesises the content
and applies it.

Examples:
  # Sync the docs for the latest commit of a local repository
  docsync run

  # Preview what would be written without touching the wiki
  docsync run --base main --head feature/subtitle --dry-run

  # Review each planned action interactively before it is applied
  docsync run --review`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runBase, "base", "HEAD~1", "base commit reference")
	runCmd.Flags().StringVar(&runHead, "head", "HEAD", "head commit reference")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "plan and synthesise without writing")
	runCmd.Flags().BoolVar(&runForce, "force", false, "skip gap detection and treat documentation as needed")
	runCmd.Flags().BoolVar(&runReview, "review", false, "review each planned action before applying it")
	runCmd.Flags().StringVar(&runProvider, "provider", "", "judgment provider override (anthropic, openai, ollama)")
	runCmd.Flags().StringVar(&runModel, "model", "", "judgment model override")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	if err := ensureConfig(); err != nil {
		return err
	}

	pipeline := pipelineService
	if pipeline == nil {
		var cleanup func()
		var err error
		pipeline, cleanup, err = buildPipeline(cmd)
		if err != nil {
			return err
		}
		defer cleanup()
	}

	opts := driving.RunOptions{
		Base:   runBase,
		Head:   runHead,
		DryRun: runDryRun,
		Force:  runForce,
	}
	if runReview {
		reviewer := tui.NewReviewer(cmd.InOrStdin(), cmd.OutOrStdout())
		opts.EntryFilter = reviewer.Approve
	}

	summary, err := pipeline.Run(cmd.Context(), opts)
	if err != nil {
		if errors.Is(err, domain.ErrReferenceResolution) {
			return fmt.Errorf("cannot resolve %s..%s: %w", runBase, runHead, err)
		}
		return err
	}

	// Per-entry failures are enumerated in the summary; a completed run
	// exits zero even when some entries failed.
	cmd.Print(renderSummary(summary))
	return nil
}

// buildPipeline wires the full pipeline from configuration. The returned
// cleanup closes the judge and the run store.
func buildPipeline(cmd *cobra.Command) (driving.Pipeline, func(), error) {
	settings := judgeSettingsFromConfig()
	if runProvider != "" {
		settings.Provider = domain.JudgeProvider(runProvider)
	}
	if runModel != "" {
		settings.Model = runModel
	}

	judgeSvc, err := judge.CreateAndValidateJudgmentService(settings)
	if err != nil {
		return nil, nil, err
	}

	source, repository, err := buildDiffSource(cmd)
	if err != nil {
		_ = judgeSvc.Close()
		return nil, nil, err
	}

	docStore, err := buildDocStore(cmd)
	if err != nil {
		_ = judgeSvc.Close()
		return nil, nil, err
	}

	store, err := sqlite.NewStore(dataDir())
	if err != nil {
		_ = judgeSvc.Close()
		return nil, nil, fmt.Errorf("opening run history: %w", err)
	}

	pipeline := services.NewPipeline(
		services.NewChangeExtractor(source, configStore.GetInt(driven.ConfigMaxDiffChars)),
		services.NewDocStructureScanner(docStore),
		services.NewStrategyEngine(judgeSvc, promptStore),
		services.NewContentSynthesizer(judgeSvc, promptStore),
		services.NewPlanExecutor(docStore),
		store.RunStore(),
		repository,
	)

	cleanup := func() {
		_ = judgeSvc.Close()
		_ = store.Close()
	}
	return pipeline, cleanup, nil
}

// judgeSettingsFromConfig assembles judge settings from the config file,
// letting provider-specific environment variables override the stored key.
func judgeSettingsFromConfig() *domain.JudgeSettings {
	settings := &domain.JudgeSettings{
		Provider: domain.JudgeProvider(configStore.GetString(driven.ConfigProvider)),
		Model:    configStore.GetString(driven.ConfigModel),
		BaseURL:  configStore.GetString(driven.ConfigBaseURL),
		APIKey:   configStore.GetString(driven.ConfigAPIKey),
	}

	switch settings.Provider {
	case domain.ProviderAnthropic:
		if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			settings.APIKey = key
		}
	case domain.ProviderOpenAI:
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			settings.APIKey = key
		}
	}
	return settings
}

// buildDiffSource selects the diff source from configuration: a local git
// repository by default, or the GitHub compare API when configured.
func buildDiffSource(cmd *cobra.Command) (driven.DiffSource, string, error) {
	owner := configStore.GetString(driven.ConfigRepoOwner)
	name := configStore.GetString(driven.ConfigRepoName)

	switch configStore.GetString(driven.ConfigDiffSource) {
	case "github":
		if owner == "" || name == "" {
			return nil, "", errors.New("github diff source requires repo_owner and repo_name; run 'docsync config set'")
		}
		client := github.NewClient(cmd.Context(), githubToken())
		return github.NewDiffSource(client, owner, name), owner + "/" + name, nil
	default:
		path := configStore.GetString(driven.ConfigRepoPath)
		if path == "" {
			path = "."
		}
		repository := path
		if owner != "" && name != "" {
			repository = owner + "/" + name
		}
		return git.NewSource(path), repository, nil
	}
}

// buildDocStore selects the documentation store from configuration: the
// GitHub wiki when a repository is configured, a local directory otherwise.
func buildDocStore(cmd *cobra.Command) (driven.DocStore, error) {
	owner := configStore.GetString(driven.ConfigRepoOwner)
	name := configStore.GetString(driven.ConfigRepoName)
	wikiPath := configStore.GetString(driven.ConfigWikiPath)

	storeKind := configStore.GetString(driven.ConfigWikiStore)
	if storeKind == "" {
		if wikiPath != "" {
			storeKind = "filesystem"
		} else {
			storeKind = "github"
		}
	}

	switch storeKind {
	case "filesystem":
		if wikiPath == "" {
			return nil, errors.New("filesystem wiki store requires wiki_path; run 'docsync config set wiki_path <dir>'")
		}
		return wikifs.NewStore(wikiPath)
	case "github":
		if owner == "" || name == "" {
			return nil, errors.New("github wiki store requires repo_owner and repo_name; run 'docsync config set'")
		}
		client := github.NewClient(cmd.Context(), githubToken())
		return github.NewWikiStore(client, owner, name), nil
	default:
		return nil, fmt.Errorf("unknown wiki store %q", storeKind)
	}
}

// githubToken prefers the environment over the config file.
func githubToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return configStore.GetString(driven.ConfigGitHubToken)
}

// dataDir derives the run history location from --config-dir when set.
func dataDir() string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "data")
}

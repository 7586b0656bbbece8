// Package cli implements the docsync command line interface using cobra.
package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/driftdocs/docsync-cli/internal/adapters/driven/config/file"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
	"github.com/driftdocs/docsync-cli/internal/logger"
)

// version is injected at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Package-level ports, built lazily in ensureConfig and swappable in tests.
var (
	configStore driven.ConfigStore
	promptStore driven.PromptStore
)

var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "Keep wiki documentation in sync with code changes",
	Long: `Docsync analyses a code diff, judges whether it leaves documentation
gaps, plans wiki actions, synthesises the content, and applies it to the
documentation store.

Configure a judgment provider with 'docsync config set-key', then run
'docsync run --base <ref> --head <ref>' against your repository.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.docsync)")

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}
}

// Execute runs the root command. Errors are reported by cobra; the exit
// code signals failure to the shell.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ensureConfig builds the config and prompt stores on first use.
func ensureConfig() error {
	if configStore == nil {
		cs, err := file.NewConfigStore(configDir)
		if err != nil {
			return err
		}
		configStore = cs
	}
	if promptStore == nil {
		promptDir := ""
		if configDir != "" {
			promptDir = filepath.Join(configDir, "prompts")
		}
		ps, err := file.NewPromptStore(promptDir)
		if err != nil {
			return err
		}
		promptStore = ps
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driftdocs/docsync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
)

// runStore is swappable in tests; when nil the history commands open the
// SQLite audit log.
var runStore driven.RunStore

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent documentation-sync runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum number of runs to list")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

// ensureRunStore opens the audit log on first use. The returned cleanup
// is a no-op when the store was injected.
func ensureRunStore() (driven.RunStore, func(), error) {
	if runStore != nil {
		return runStore, func() {}, nil
	}
	store, err := sqlite.NewStore(dataDir())
	if err != nil {
		return nil, nil, fmt.Errorf("opening run history: %w", err)
	}
	rs := store.RunStore()
	return rs, func() { _ = rs.Close() }, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	store, cleanup, err := ensureRunStore()
	if err != nil {
		return err
	}
	defer cleanup()

	summaries, err := store.ListRuns(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if len(summaries) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	for _, s := range summaries {
		applied, skipped, failed := s.Counts()
		mode := ""
		if s.DryRun {
			mode = "  dry-run"
		}
		cmd.Printf("%s  %s  %s..%s  %d applied, %d skipped, %d failed%s\n",
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.RunID, s.Base, s.Head, applied, skipped, failed, mode)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, cleanup, err := ensureRunStore()
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := store.GetRun(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("run %s not found", args[0])
		}
		return fmt.Errorf("loading run: %w", err)
	}

	cmd.Print(renderSummary(summary))
	return nil
}

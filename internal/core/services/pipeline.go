package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driving"
	"github.com/driftdocs/docsync-cli/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.Pipeline = (*Pipeline)(nil)

// Pipeline wires the five run stages together: extraction and scanning
// feed the strategy engine, whose plan flows through synthesis into
// execution. Each invocation is stateless apart from reading the current
// repository and store snapshots.
type Pipeline struct {
	extractor   *ChangeExtractor
	scanner     *DocStructureScanner
	strategy    *StrategyEngine
	synthesizer *ContentSynthesizer
	executor    *PlanExecutor
	runStore    driven.RunStore
	repository  string

	// now is swappable for tests.
	now func() time.Time
}

// NewPipeline creates the run pipeline. runStore is optional; when nil,
// runs are not persisted to the audit log.
func NewPipeline(
	extractor *ChangeExtractor,
	scanner *DocStructureScanner,
	strategy *StrategyEngine,
	synthesizer *ContentSynthesizer,
	executor *PlanExecutor,
	runStore driven.RunStore,
	repository string,
) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		scanner:     scanner,
		strategy:    strategy,
		synthesizer: synthesizer,
		executor:    executor,
		runStore:    runStore,
		repository:  repository,
		now:         time.Now,
	}
}

// Run executes one documentation-sync run. Extraction and scanning have
// no data dependency on each other and run concurrently; everything after
// them is strictly sequential. Only extraction failures abort the run:
// every later failure is captured per entry in the summary.
func (p *Pipeline) Run(ctx context.Context, opts driving.RunOptions) (*domain.RunSummary, error) {
	started := p.now()
	logger.Section("docsync run")

	var (
		changes    []domain.ChangeRecord
		extractErr error
		inv        domain.WikiInventory
	)
	scanDone := make(chan struct{})
	go func() {
		defer close(scanDone)
		inv = p.scanner.Scan(ctx)
	}()
	changes, extractErr = p.extractor.Extract(ctx, opts.Base, opts.Head)
	<-scanDone

	if extractErr != nil {
		return nil, extractErr
	}

	gap, plan := p.strategy.BuildPlan(ctx, inv, changes, opts.Force)

	meta := RunMeta{Base: opts.Base, Head: opts.Head, Date: started}
	for i := range plan.Entries {
		entry := &plan.Entries[i]
		if entry.IsSkip() {
			continue
		}
		if err := p.synthesizer.Synthesize(ctx, entry, changes, meta); err != nil {
			if errors.Is(err, domain.ErrSynthesisFailed) {
				// Recorded on the entry; the executor reports it failed.
				continue
			}
			return nil, err
		}
	}

	summary := &domain.RunSummary{
		RunID:      uuid.NewString(),
		Repository: p.repository,
		Base:       opts.Base,
		Head:       opts.Head,
		DryRun:     opts.DryRun,
		Assessment: gap,
		Plan:       plan,
		StartedAt:  started,
	}

	if !opts.DryRun {
		summary.Results = p.executor.Execute(ctx, plan, inv, meta, opts.EntryFilter)
	}
	summary.FinishedAt = p.now()

	if p.runStore != nil {
		if err := p.runStore.SaveRun(ctx, *summary); err != nil {
			logger.Warn("saving run to audit log: %v", err)
		}
	}
	return summary, nil
}

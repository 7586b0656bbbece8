// Package judge provides factory functions for creating judgment
// service adapters.
package judge

import (
	"context"
	"fmt"
	"time"

	"github.com/driftdocs/docsync-cli/internal/adapters/driven/judge/anthropic"
	"github.com/driftdocs/docsync-cli/internal/adapters/driven/judge/ollama"
	"github.com/driftdocs/docsync-cli/internal/adapters/driven/judge/openai"
	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateJudgmentService creates the appropriate judgment service based
// on settings. Returns nil if the provider is not configured.
func CreateJudgmentService(settings *domain.JudgeSettings) (driven.JudgmentService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.ProviderOllama:
		return ollama.NewJudgmentService(ollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.ProviderOpenAI:
		return openai.NewJudgmentService(openai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.ProviderAnthropic:
		return anthropic.NewJudgmentService(anthropic.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported judge provider: %s", settings.Provider)
	}
}

// CreateAndValidateJudgmentService creates a judgment service and
// validates connectivity. Returns the service if successful, or an
// error with guidance.
func CreateAndValidateJudgmentService(settings *domain.JudgeSettings) (driven.JudgmentService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: no provider configured. Run 'docsync config set-key' first",
			domain.ErrJudgeUnavailable)
	}

	svc, err := CreateJudgmentService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'docsync config set-key' to fix",
			domain.ErrJudgeUnavailable, err)
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'docsync config check' to diagnose",
			domain.ErrJudgeUnavailable, err)
	}

	return svc, nil
}

// ValidateJudgeConfig validates a judge configuration by creating a
// service and pinging it. This is intended for 'docsync config check'.
func ValidateJudgeConfig(settings *domain.JudgeSettings) error {
	if !settings.IsConfigured() {
		return fmt.Errorf("judge provider is not configured")
	}

	svc, err := CreateJudgmentService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

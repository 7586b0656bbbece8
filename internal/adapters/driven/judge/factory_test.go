package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
)

func TestCreateJudgmentService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.JudgeSettings
		wantNil   bool
		wantErr   bool
		wantModel string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.JudgeSettings{},
			wantNil:  true,
		},
		{
			name: "ollama needs no key",
			settings: &domain.JudgeSettings{
				Provider: domain.ProviderOllama,
				Model:    "llama3.2",
			},
			wantModel: "llama3.2",
		},
		{
			name: "openai with key",
			settings: &domain.JudgeSettings{
				Provider: domain.ProviderOpenAI,
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
			wantModel: "gpt-4o-mini",
		},
		{
			name: "anthropic with key",
			settings: &domain.JudgeSettings{
				Provider: domain.ProviderAnthropic,
				APIKey:   "test-key",
				Model:    "claude-3-5-sonnet-latest",
			},
			wantModel: "claude-3-5-sonnet-latest",
		},
		{
			name: "hosted provider without key is unconfigured",
			settings: &domain.JudgeSettings{
				Provider: domain.ProviderAnthropic,
			},
			wantNil: true,
		},
		{
			name: "unknown provider is unconfigured",
			settings: &domain.JudgeSettings{
				Provider: "watson",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateJudgmentService(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateAndValidateUnconfigured(t *testing.T) {
	_, err := CreateAndValidateJudgmentService(&domain.JudgeSettings{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrJudgeUnavailable)
}

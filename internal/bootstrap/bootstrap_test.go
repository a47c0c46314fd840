package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	infraai "github.com/jhoicas/rentabilidad-api/internal/infrastructure/ai"
	"github.com/jhoicas/rentabilidad-api/internal/infrastructure/memory"
	"github.com/jhoicas/rentabilidad-api/pkg/config"
)

func TestNewServices_SiembraEscenarios(t *testing.T) {
	ctx := context.Background()
	repos := MemoryRepositories(memory.NewStore())

	svc, err := NewServices(ctx, repos, Options{})
	require.NoError(t, err)
	require.NotNil(t, svc.Ingest)

	for _, name := range []string{entity.ScenarioActual, entity.ScenarioBudget} {
		sc, err := repos.Scenarios.GetByName(ctx, name)
		require.NoError(t, err)
		require.NotNil(t, sc, name)
	}

	// Idempotente: una segunda construcción no duplica escenarios.
	_, err = NewServices(ctx, repos, Options{})
	require.NoError(t, err)
}

func TestNewLLM(t *testing.T) {
	assert.Nil(t, NewLLM(config.AIConfig{}))
	assert.Nil(t, NewLLM(config.AIConfig{Provider: "anthropic"}), "sin API key no hay IA")

	llm := NewLLM(config.AIConfig{Provider: "anthropic", AnthropicKey: "k", AnthropicModel: "m"})
	assert.IsType(t, &infraai.AnthropicService{}, llm)

	llm = NewLLM(config.AIConfig{Provider: "gemini", GeminiKey: "k", GeminiModel: "m"})
	assert.IsType(t, &infraai.GeminiService{}, llm)
}

func TestOpenRepositories_Memoria(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreMemory}}
	repos, closeFn, err := OpenRepositories(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &memory.AnalyticsRepository{}, repos.Analytics)
}

func TestOptionsFrom(t *testing.T) {
	limits := LimitsFrom(config.UploadConfig{MaxFileMB: 2, MaxRows: 50})
	assert.Equal(t, int64(2<<20), limits.MaxFileBytes)
	assert.Equal(t, 50, limits.MaxRows)

	opts := ReportOptionsFrom(config.ReportConfig{PriorYearFactor: 0.8, CurrencyLabel: "USD"})
	assert.Equal(t, "0.8", opts.PriorYearFactor.String())
	assert.Equal(t, "USD", opts.CurrencyLabel)
}

package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/rentabilidad-api/internal/application/ports"
	"github.com/jhoicas/rentabilidad-api/pkg/logger"
)

// Origen del texto de un insight.
const (
	SourceRules = "rules"
	SourceAI    = "ai"
)

// narrativeTimeout tope de cada llamada al LLM.
const narrativeTimeout = 15 * time.Second

// NarrativeUseCase reescribe el insight por reglas con un LLM. Si el LLM no está
// configurado o falla, devuelve el texto por reglas marcado como Fallback.
type NarrativeUseCase struct {
	dashboard *DashboardUseCase
	llm       ports.LLMService
	log       *logger.Logger
}

// NewNarrativeUseCase construye el caso de uso. llm puede ser nil.
func NewNarrativeUseCase(dashboard *DashboardUseCase, llm ports.LLMService, log *logger.Logger) *NarrativeUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &NarrativeUseCase{dashboard: dashboard, llm: llm, log: log.Component("narrative")}
}

// RuleInsights insight por reglas, sin IA.
func (uc *NarrativeUseCase) RuleInsights(ctx context.Context, chart string) (*dto.InsightDTO, error) {
	text, err := uc.dashboard.Insights(ctx, chart)
	if err != nil {
		return nil, err
	}
	return &dto.InsightDTO{Chart: chart, Insights: text, Source: SourceRules}, nil
}

// Narrate genera la narrativa IA del gráfico. El llamador ya verificó el permiso de IA.
func (uc *NarrativeUseCase) Narrate(ctx context.Context, chart string) (*dto.InsightDTO, error) {
	rules, err := uc.RuleInsights(ctx, chart)
	if err != nil {
		return nil, err
	}
	if uc.llm == nil {
		rules.Fallback = true
		return rules, nil
	}

	llmCtx, cancel := context.WithTimeout(ctx, narrativeTimeout)
	defer cancel()

	text, err := uc.llm.NarrateInsights(llmCtx, chart, rules.Insights)
	if err != nil || text == "" {
		uc.log.Warn().Err(err).Str("chart", chart).Msg("narrativa IA no disponible, se usa el análisis por reglas")
		rules.Fallback = true
		return rules, nil
	}
	return &dto.InsightDTO{Chart: chart, Insights: text, Source: SourceAI}, nil
}

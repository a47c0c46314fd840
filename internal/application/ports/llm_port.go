package ports

import "context"

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta interfaz.
type LLMService interface {
	// NarrateInsights recibe el análisis por reglas de un gráfico del dashboard y devuelve
	// una narrativa ejecutiva redactada por el modelo. El contexto debe llevar un timeout.
	NarrateInsights(ctx context.Context, chart string, ruleInsights string) (string, error)
}

package ai

import (
	"fmt"
	"strings"
)

// narrativeSystemPrompt rol del modelo al reescribir los análisis por reglas.
const narrativeSystemPrompt = `Eres un analista financiero que redacta resúmenes ejecutivos de rentabilidad de clientes.
Recibes un análisis generado por reglas sobre un gráfico del dashboard.
Reescríbelo en español, en un párrafo breve (máximo 120 palabras), claro y orientado a la acción.
Reglas:
- No inventes cifras: usa solo los números presentes en el análisis.
- Conserva nombres de productos, regiones y provincias tal como aparecen.
- Devuelve solo el texto, sin markdown ni encabezados.`

// maxResponseBytes límite de lectura del cuerpo de respuesta de los proveedores.
const maxResponseBytes = 64 * 1024

func userPrompt(chart, ruleInsights string) string {
	return fmt.Sprintf("Gráfico: %s\nAnálisis por reglas:\n%s", chart, strings.TrimSpace(ruleInsights))
}

// cleanText quita espacios y cercas de código que algunos modelos añaden.
func cleanText(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if nl := strings.Index(text, "\n"); nl != -1 {
			text = text[nl+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

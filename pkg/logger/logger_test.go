package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProduccionEmiteJSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(Config{Env: "production", Level: "info", Service: "rentabilidad-api"}, &buf)

	log.Component("ingest").Info().Int64("batch_id", 7).Msg("lote procesado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rentabilidad-api", entry["service"])
	assert.Equal(t, "ingest", entry["component"])
	assert.Equal(t, float64(7), entry["batch_id"])
	assert.Equal(t, "lote procesado", entry["message"])
}

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(Config{Env: "production", Level: "WARN"}, &buf)

	log.Info().Msg("no debe aparecer")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("sí aparece")
	assert.Contains(t, buf.String(), "sí aparece")
}

func TestNewNop_NoPanica(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Error().Str("k", "v").Msg("descartado")
	})
}

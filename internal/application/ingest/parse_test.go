package ingest

import (
	"testing"

	"github.com/jhoicas/rentabilidad-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseDateKey(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want entity.DateKey
		ok   bool
	}{
		{"ISO", "2024-01-15", 20240115, true},
		{"ISO con hora", "2024-01-15 10:30:00", 20240115, true},
		{"RFC3339", "2024-01-15T10:30:00Z", 20240115, true},
		{"mes/día/año", "1/15/2024", 20240115, true},
		{"formato por defecto de excelize", "01-15-24", 20240115, true},
		{"fecha y hora de excelize", "1/15/24 00:00", 20240115, true},
		{"serial de Excel", "45306", 20240115, true},
		{"espacios alrededor", "  2024-02-29 ", 20240229, true},
		{"vacío", "", 0, false},
		{"texto", "no es fecha", 0, false},
		{"fecha inexistente", "2024-02-30", 0, false},
		{"serial fuera de rango", "0", 0, false},
		{"año suelto no es serial", "2024", 0, false},
		{"entero pequeño no es serial", "15", 0, false},
		{"primer serial aceptado", "18264", 19500101, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseDateKey(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseMeasure(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"50.00", "50", true},
		{"1,234.50", "1234.5", true},
		{"1.234,56", "0", false},
		{"$10", "10", true},
		{"-3.25", "-3.25", true},
		{"", "0", false},
		{"abc", "0", false},
		{"12..5", "0", false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := parseMeasure(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseMeasures_CadaMedidaSeFuerzaPorSeparado(t *testing.T) {
	m, coerced := parseMeasures(SaleRow{Quantity: "abc", UnitPrice: "5.12345", Revenue: "50", COGS: ""})

	assert.True(t, m.Quantity.IsZero())
	assert.True(t, decimal.RequireFromString("5.12345").Equal(m.UnitPrice))
	assert.True(t, decimal.NewFromInt(50).Equal(m.Revenue))
	assert.True(t, m.COGS.IsZero())
	assert.Equal(t, []string{"quantity", "cogs"}, coerced)
}

func TestTally(t *testing.T) {
	tally := NewTally()
	tally.Add(loaded(&entity.Sale{}, []string{"cogs"}))
	tally.Add(loaded(&entity.Sale{}, nil))
	tally.Add(skipped(SkipUnknownCustomer))
	tally.Add(skipped(SkipUnknownCustomer))
	tally.Add(skipped(SkipInvalidDate))

	assert.Equal(t, 2, tally.Loaded)
	assert.Equal(t, 1, tally.CoercedMeasures)
	assert.Equal(t, 3, tally.SkippedTotal())
	assert.Equal(t, map[string]int{"unknown_customer": 2, "invalid_date": 1}, tally.SkippedByName())
	assert.Nil(t, NewTally().SkippedByName())
}

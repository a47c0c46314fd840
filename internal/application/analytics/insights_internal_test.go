package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTrendStatement_Umbrales(t *testing.T) {
	cases := []struct {
		growth string
		want   string
	}{
		{"12.5", trendPositive},
		{"5.01", trendPositive},
		{"5", trendStable},
		{"0.01", trendStable},
		{"0", trendDeclining},
		{"-30", trendDeclining},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, trendStatement(decimal.RequireFromString(tc.growth)), tc.growth)
	}
}

func TestBestWorst_EmpatesPorOrdenDeEntrada(t *testing.T) {
	groups := []group{
		{label: "a", revenue: decimal.NewFromInt(10)},
		{label: "b", revenue: decimal.NewFromInt(30)},
		{label: "c", revenue: decimal.NewFromInt(30)},
		{label: "d", revenue: decimal.NewFromInt(10)},
	}
	best, worst := bestWorst(groups, byRevenue)
	assert.Equal(t, 1, best)
	assert.Equal(t, 0, worst)

	best, worst = bestWorst(nil, byRevenue)
	assert.Equal(t, -1, best)
	assert.Equal(t, -1, worst)
}

func TestGrowthAndShare(t *testing.T) {
	assert.True(t, decimal.NewFromInt(-50).Equal(growthPct(decimal.NewFromInt(200), decimal.NewFromInt(400))))
	assert.True(t, growthPct(decimal.NewFromInt(200), decimal.Zero).IsZero())
	assert.True(t, decimal.RequireFromString("33.33").Equal(sharePct(decimal.NewFromInt(1), decimal.NewFromInt(3))))
	assert.True(t, sharePct(decimal.NewFromInt(1), decimal.Zero).IsZero())
}

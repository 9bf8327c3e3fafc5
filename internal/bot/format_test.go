package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AlexMuhammad/telegram-token-assistant/internal/model"
)

func TestFormatTokenFullRecord(t *testing.T) {
	record := model.TokenRecord{
		Name:            "Pepe",
		Chain:           "Ethereum",
		Symbol:          "PEPE",
		Address:         "0x6982508145454ce325ddbe47a25d4ec3d2311933",
		Price:           0.0000012,
		Liquidity:       4500000,
		Volume24h:       9800000,
		FDV:             505000000,
		Transactions24h: 1234,
		MarketCap:       12000000,
	}

	got := FormatToken(record)

	assert.Contains(t, got, "📊 Token: Pepe")
	assert.Contains(t, got, "Chain: Ethereum")
	// Small prices render in plain decimal notation, never scientific.
	assert.Contains(t, got, "Price: $0.0000012")
	assert.Contains(t, got, "Liquidity: $4,500,000")
	assert.Contains(t, got, "Volume 24h: 9,800,000 (1234 txns)")
	assert.Contains(t, got, "FDV: $505,000,000")
	assert.Contains(t, got, "Market Cap: $12,000,000")
	assert.Contains(t, got, "Address: 0x6982508145454ce325ddbe47a25d4ec3d2311933")
}

func TestFormatTokenZeroValuesRenderSafely(t *testing.T) {
	got := FormatToken(model.EmptyTokenRecord())

	assert.Contains(t, got, "📊 Token: Unknown")
	assert.Contains(t, got, "Chain: Unknown")
	assert.Contains(t, got, "Price: $0")
	assert.Contains(t, got, "Liquidity: $0")
	assert.Contains(t, got, "Volume 24h: 0\n")
	assert.NotContains(t, got, "txns")
	assert.NotContains(t, got, "FDV")
	assert.NotContains(t, got, "Market Cap")
	assert.True(t, strings.HasSuffix(got, "Address: "))
}

func TestFormatTopToken(t *testing.T) {
	got := FormatTopToken(model.TokenRecord{Name: "Bitcoin", Price: 67123.5, MarketCap: 1320000000000})
	assert.Equal(t, "📈 Bitcoin: $67123.50000000, Market Cap: $1,320,000,000,000", got)
}

func TestFormatInsight(t *testing.T) {
	assert.Equal(t, "🧠 AI Insight:\nLooks liquid.", FormatInsight("Looks liquid."))
}

func TestFormatSafety(t *testing.T) {
	tests := []struct {
		name  string
		score *model.SafetyScore
		want  string
	}{
		{
			name:  "present",
			score: &model.SafetyScore{Score: 72, Explanation: "Healthy liquidity."},
			want:  "🛡 Safety Score: 72% - Healthy liquidity.",
		},
		{
			name:  "missing",
			score: nil,
			want:  "🛡 Safety Score: 0% - No explanation provided.",
		},
		{
			name:  "empty explanation",
			score: &model.SafetyScore{Score: 10},
			want:  "🛡 Safety Score: 10% - No explanation provided.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSafety(tt.score))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12000000, "12,000,000"},
		{1234567.89, "1,234,567.89"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.in))
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.0000012, "0.0000012"},
		{0, "0"},
		{67123.5, "67123.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPrice(tt.in))
	}
}

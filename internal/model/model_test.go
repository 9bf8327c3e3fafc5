package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	venue := &TokenRecord{
		Name:            "Pepe",
		Chain:           "Ethereum",
		Symbol:          "PEPE",
		Address:         "0x6982508145454ce325ddbe47a25d4ec3d2311933",
		Price:           0.0000012,
		Liquidity:       500000,
		Volume24h:       1000000,
		FDV:             9000000,
		Transactions24h: 1234,
	}
	aggregator := &TokenRecord{
		Name:      "Pepe",
		Price:     0.0000013,
		MarketCap: 12000000,
	}

	merged := Merge(venue, aggregator)

	// Venue wins everything except market cap.
	assert.Equal(t, "Pepe", merged.Name)
	assert.Equal(t, "Ethereum", merged.Chain)
	assert.Equal(t, "PEPE", merged.Symbol)
	assert.Equal(t, 0.0000012, merged.Price)
	assert.Equal(t, float64(500000), merged.Liquidity)
	assert.Equal(t, int64(1234), merged.Transactions24h)
	assert.Equal(t, float64(12000000), merged.MarketCap)
}

func TestMergeNilInputs(t *testing.T) {
	tests := []struct {
		name       string
		venue      *TokenRecord
		aggregator *TokenRecord
	}{
		{"both nil", nil, nil},
		{"venue only", &TokenRecord{Name: "Doge", Symbol: "DOGE"}, nil},
		{"aggregator only", nil, &TokenRecord{MarketCap: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := Merge(tt.venue, tt.aggregator)
			// Defaults are present regardless of which side is missing.
			assert.NotEmpty(t, merged.Name)
			assert.NotEmpty(t, merged.Chain)
			assert.GreaterOrEqual(t, merged.Price, 0.0)
			assert.GreaterOrEqual(t, merged.MarketCap, 0.0)
		})
	}
}

func TestMergeFillsUnknowns(t *testing.T) {
	merged := Merge(&TokenRecord{Symbol: "X"}, nil)
	assert.Equal(t, "Unknown", merged.Name)
	assert.Equal(t, "Unknown", merged.Chain)
}

func TestQueryTypeValid(t *testing.T) {
	for _, q := range []QueryType{QueryPrice, QueryToken, QueryAddress, QueryCompareTokens, QueryTopTokens, QueryGeneral} {
		assert.True(t, q.Valid(), "%s should be valid", q)
	}
	assert.False(t, QueryType("").Valid())
	assert.False(t, QueryType("banana").Valid())
}

func TestEmptyTokenRecord(t *testing.T) {
	r := EmptyTokenRecord()
	assert.Equal(t, "Unknown", r.Name)
	assert.Equal(t, "Unknown", r.Chain)
	assert.Zero(t, r.Price)
	assert.Zero(t, r.MarketCap)
}

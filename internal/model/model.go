// Package model defines the core data structures for the token assistant.
package model

import (
	"time"
)

// TokenRecord is the canonical normalized market snapshot for one token.
// Every numeric field carries a zero default, so a TokenRecord handed to
// presentation code never needs missing-data special cases.
type TokenRecord struct {
	// Name is the human-readable token name, "Unknown" if undetermined
	Name string `json:"name"`

	// Chain is the blockchain the token trades on, "Unknown" if undetermined
	Chain string `json:"chain"`

	// Symbol is the ticker symbol, may be empty
	Symbol string `json:"symbol"`

	// Address is the contract address, may be empty
	Address string `json:"address"`

	// Price is the current USD price
	Price float64 `json:"price"`

	// Liquidity is the pooled USD liquidity on the venue
	Liquidity float64 `json:"liquidity"`

	// Volume24h is the trailing 24h USD trade volume
	Volume24h float64 `json:"volume24h"`

	// FDV is the fully diluted valuation in USD
	FDV float64 `json:"fdv"`

	// Transactions24h is the trailing 24h transaction count
	Transactions24h int64 `json:"transactions24h"`

	// MarketCap is the circulating market capitalization in USD
	MarketCap float64 `json:"marketCap"`
}

// EmptyTokenRecord returns a fully-defaulted record for a token the
// aggregator could not resolve. Callers can safely read every field.
func EmptyTokenRecord() TokenRecord {
	return TokenRecord{
		Name:  "Unknown",
		Chain: "Unknown",
	}
}

// Merge canonicalizes one venue payload and one aggregator payload into a
// single TokenRecord. The venue contributes price, liquidity, volume and
// identity fields; the aggregator contributes market cap only. Nil inputs
// contribute defaults.
func Merge(venue, aggregator *TokenRecord) TokenRecord {
	out := EmptyTokenRecord()

	if venue != nil {
		out.Name = venue.Name
		out.Chain = venue.Chain
		out.Symbol = venue.Symbol
		out.Address = venue.Address
		out.Price = venue.Price
		out.Liquidity = venue.Liquidity
		out.Volume24h = venue.Volume24h
		out.FDV = venue.FDV
		out.Transactions24h = venue.Transactions24h
	}
	if aggregator != nil {
		out.MarketCap = aggregator.MarketCap
	}
	if out.Name == "" {
		out.Name = "Unknown"
	}
	if out.Chain == "" {
		out.Chain = "Unknown"
	}
	return out
}

// QueryType enumerates the intents the classifier can produce.
type QueryType string

// Classification intents. Address is a first-class intent with its own
// router handler.
const (
	QueryPrice         QueryType = "price"
	QueryToken         QueryType = "token"
	QueryAddress       QueryType = "address"
	QueryCompareTokens QueryType = "compare_tokens"
	QueryTopTokens     QueryType = "top_tokens"
	QueryGeneral       QueryType = "general"
)

// Valid reports whether q is one of the enumerated intents.
func (q QueryType) Valid() bool {
	switch q {
	case QueryPrice, QueryToken, QueryAddress, QueryCompareTokens, QueryTopTokens, QueryGeneral:
		return true
	}
	return false
}

// SafetyScore is the model's risk assessment for a token.
type SafetyScore struct {
	// Score ranges 0 (extremely risky) to 100 (very safe)
	Score int `json:"score"`

	// Explanation is a short note on the key risk factors
	Explanation string `json:"explanation"`
}

// Analysis is the structured result of one classification call.
type Analysis struct {
	// QueryType is always one of the enumerated intents
	QueryType QueryType `json:"queryType"`

	// TokenInput is a single symbol, comma-separated symbols for
	// comparisons, or empty for general queries
	TokenInput string `json:"tokenInput"`

	// Insight is a non-empty human-readable response
	Insight string `json:"insight"`

	// SafetyScore is present only for price/token/address/compare intents
	SafetyScore *SafetyScore `json:"safetyScore,omitempty"`
}

// QueryLogEntry is a durable record of one handled exchange.
type QueryLogEntry struct {
	// ID is a ULID assigned at insert time
	ID string `json:"id"`

	// ChatID identifies the conversation the exchange belongs to
	ChatID int64 `json:"chatId"`

	// Input is the raw user message text
	Input string `json:"input"`

	// Response is the formatted reply sent back
	Response string `json:"response"`

	// TokenData is the serialized TokenRecord or record list, empty string
	// when the exchange carried no market data
	TokenData string `json:"tokenData"`

	// CreatedAt is when the entry was appended
	CreatedAt time.Time `json:"createdAt"`
}

// Package facade wraps every externally-costly operation with check-cache,
// else compute-and-populate semantics. It is the seam between the router
// and the data-producing subsystems.
package facade

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/AlexMuhammad/telegram-token-assistant/internal/cache"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/model"
)

// VenueFetcher is the DEX-style market data contract.
type VenueFetcher interface {
	FetchBySymbol(ctx context.Context, symbol string) (*model.TokenRecord, error)
	FetchByAddress(ctx context.Context, address string) (*model.TokenRecord, error)
}

// AggregatorFetcher is the aggregator-style market data contract.
type AggregatorFetcher interface {
	FetchBySymbol(ctx context.Context, symbol string) model.TokenRecord
	FetchTop(ctx context.Context) []model.TokenRecord
}

// Classifier is the model-backed analysis contract.
type Classifier interface {
	Classify(ctx context.Context, tokenData interface{}, userInput string, chatID int64) (model.Analysis, error)
	ExtractSymbol(ctx context.Context, userMessage string, chatID int64) string
}

// Facade serves cached results for market lookups, classification and the
// top-token listing. Absent results are never cached, so a transient
// failure is retried on the next identical request.
type Facade struct {
	cache      *cache.Store
	venue      VenueFetcher
	aggregator AggregatorFetcher
	classifier Classifier

	// cacheOps counts hits and misses per data kind; nil disables counting
	cacheOps *prometheus.CounterVec

	// fetchErrors counts absorbed upstream failures per data kind
	fetchErrors *prometheus.CounterVec
}

// New wires the facade to its collaborators.
func New(c *cache.Store, venue VenueFetcher, aggregator AggregatorFetcher, classifier Classifier) *Facade {
	return &Facade{
		cache:      c,
		venue:      venue,
		aggregator: aggregator,
		classifier: classifier,
	}
}

// WithCacheMetrics attaches a counter vec with labels {kind, outcome}.
func (f *Facade) WithCacheMetrics(ops *prometheus.CounterVec) *Facade {
	f.cacheOps = ops
	return f
}

// WithFetchMetrics attaches a counter vec with a {kind} label, incremented
// when an upstream failure is absorbed into a nil result.
func (f *Facade) WithFetchMetrics(errs *prometheus.CounterVec) *Facade {
	f.fetchErrors = errs
	return f
}

func (f *Facade) count(kind, outcome string) {
	if f.cacheOps != nil {
		f.cacheOps.WithLabelValues(kind, outcome).Inc()
	}
}

func (f *Facade) countError(kind string) {
	if f.fetchErrors != nil {
		f.fetchErrors.WithLabelValues(kind).Inc()
	}
}

// TokenBySymbol returns venue data for a symbol, nil when the symbol is
// unknown or the venue failed.
func (f *Facade) TokenBySymbol(ctx context.Context, symbol string) *model.TokenRecord {
	key := cache.TokenKey(symbol)
	if cached, ok := f.cache.Get(key); ok {
		f.count("token", "hit")
		record := cached.(model.TokenRecord)
		return &record
	}
	f.count("token", "miss")

	record, err := f.venue.FetchBySymbol(ctx, symbol)
	if err != nil {
		logrus.Warnf("Venue fetch for symbol %s failed: %v", symbol, err)
		f.countError("token")
		return nil
	}
	if record != nil {
		f.cache.Set(key, *record)
	}
	return record
}

// TokenByAddress returns venue data for a contract address, nil when no
// pair trades it or the venue failed.
func (f *Facade) TokenByAddress(ctx context.Context, address string) *model.TokenRecord {
	key := cache.AddressKey(address)
	if cached, ok := f.cache.Get(key); ok {
		f.count("address", "hit")
		record := cached.(model.TokenRecord)
		return &record
	}
	f.count("address", "miss")

	record, err := f.venue.FetchByAddress(ctx, address)
	if err != nil {
		logrus.Warnf("Venue fetch for address %s failed: %v", address, err)
		f.countError("address")
		return nil
	}
	if record != nil {
		f.cache.Set(key, *record)
	}
	return record
}

// GeckoBySymbol returns aggregator data for a symbol. The result is always
// readable; an unresolvable symbol yields a defaulted record.
func (f *Facade) GeckoBySymbol(ctx context.Context, symbol string) model.TokenRecord {
	key := cache.GeckoKey(symbol)
	if cached, ok := f.cache.Get(key); ok {
		f.count("gecko", "hit")
		return cached.(model.TokenRecord)
	}
	f.count("gecko", "miss")

	record := f.aggregator.FetchBySymbol(ctx, symbol)
	f.cache.Set(key, record)
	return record
}

// Analyze returns a cached or fresh classification for (chat, input).
// Validation errors propagate; everything else already degrades to the
// classifier's fallback result.
func (f *Facade) Analyze(ctx context.Context, tokenData interface{}, input string, chatID int64) (model.Analysis, error) {
	key := cache.AnalysisKey(chatID, input)
	if cached, ok := f.cache.Get(key); ok {
		f.count("analysis", "hit")
		return cached.(model.Analysis), nil
	}
	f.count("analysis", "miss")

	analysis, err := f.classifier.Classify(ctx, tokenData, input, chatID)
	if err != nil {
		return model.Analysis{}, err
	}
	f.cache.Set(key, analysis)
	return analysis, nil
}

// ExtractSymbol converts free text into one canonical asset symbol. Not
// cached: the result depends on the live transcript, not just the text.
func (f *Facade) ExtractSymbol(ctx context.Context, userMessage string, chatID int64) string {
	return f.classifier.ExtractSymbol(ctx, userMessage, chatID)
}

// TopTokens returns the cached or fresh top-token listing for an input.
// An empty listing is treated as a transient failure and not cached.
func (f *Facade) TopTokens(ctx context.Context, input string) []model.TokenRecord {
	key := cache.TopTokensKey(input)
	if cached, ok := f.cache.Get(key); ok {
		f.count("top", "hit")
		return cached.([]model.TokenRecord)
	}
	f.count("top", "miss")

	records := f.aggregator.FetchTop(ctx)
	if len(records) > 0 {
		f.cache.Set(key, records)
	}
	return records
}

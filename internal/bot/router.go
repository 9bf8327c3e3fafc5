package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AlexMuhammad/telegram-token-assistant/internal/facade"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/model"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/otel"
)

// Transport sends replies and status signals back to the messaging platform.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
}

// QueryLog is the durable exchange log. Appends are best-effort from the
// router's perspective.
type QueryLog interface {
	Append(ctx context.Context, chatID int64, input, response, tokenData string) error
}

// Router drives one of the pipelines per inbound message based on the
// classified intent. It holds no per-message state; concurrent messages
// from different chats execute independently.
type Router struct {
	facade    *facade.Facade
	logs      QueryLog
	transport Transport
	metrics   *Metrics
}

// NewRouter wires the router to its collaborators. metrics may be nil.
func NewRouter(f *facade.Facade, logs QueryLog, transport Transport, metrics *Metrics) *Router {
	return &Router{
		facade:    f,
		logs:      logs,
		transport: transport,
		metrics:   metrics,
	}
}

// HandleCommand answers the static administrative commands.
func (r *Router) HandleCommand(ctx context.Context, chatID int64, command string) {
	var reply string
	switch command {
	case "start":
		reply = WelcomeMessage
	case "help":
		reply = HelpMessage
	default:
		return
	}
	if err := r.transport.SendMessage(ctx, chatID, reply); err != nil {
		logrus.Warnf("Failed to send %s reply to chat %d: %v", command, chatID, err)
	}
}

// HandleMessage processes one inbound text message end-to-end: validate,
// classify, dispatch, reply, log. No failure inside the pipeline terminates
// the handler; unexpected panics are reported to the user as a generic
// error and the process keeps serving.
func (r *Router) HandleMessage(ctx context.Context, chatID int64, text string) {
	input := strings.TrimSpace(text)
	if input == "" || chatID <= 0 {
		// Reject silently, no reply.
		return
	}

	ctx, span := otel.Tracer().Start(ctx, "bot.HandleMessage")
	span.SetAttributes(attribute.Int64("chat.id", chatID))
	defer span.End()

	start := time.Now()
	intent := "unknown"

	defer func() {
		if rec := recover(); rec != nil {
			logrus.Errorf("Panic handling message for chat %d: %v", chatID, rec)
			r.metrics.observeMessage(intent, "panic", time.Since(start).Seconds())
			r.send(ctx, chatID, fmt.Sprintf("⚠️ Error: %v", rec))
		}
	}()

	if err := r.transport.SendChatAction(ctx, chatID, "typing"); err != nil {
		logrus.Debugf("Failed to signal typing for chat %d: %v", chatID, err)
	}

	analysis, err := r.facade.Analyze(ctx, struct{}{}, input, chatID)
	if err != nil {
		logrus.Errorf("Analysis rejected input for chat %d: %v", chatID, err)
		otel.RecordError(ctx, err)
		r.metrics.observeMessage(intent, "error", time.Since(start).Seconds())
		r.send(ctx, chatID, fmt.Sprintf("⚠️ Error: %v", err))
		return
	}

	intent = string(analysis.QueryType)
	span.SetAttributes(attribute.String("query.type", intent))

	var reply string
	switch analysis.QueryType {
	case model.QueryPrice:
		reply = r.handlePrice(ctx, chatID, input, analysis.TokenInput)
	case model.QueryToken:
		reply = r.handleToken(ctx, chatID, input, analysis.TokenInput)
	case model.QueryAddress:
		reply = r.handleAddress(ctx, chatID, input, analysis.TokenInput)
	case model.QueryCompareTokens:
		reply = r.handleCompare(ctx, chatID, input, analysis.TokenInput)
	case model.QueryTopTokens:
		reply = r.handleTopTokens(ctx, chatID, input)
	case model.QueryGeneral:
		reply = r.handleGeneral(ctx, chatID, input, analysis.Insight)
	default:
		// Unrecognized intent is not logged to the durable store.
		reply = MsgUnknownRequest
	}

	r.metrics.observeMessage(intent, "ok", time.Since(start).Seconds())
	r.send(ctx, chatID, reply)
}

func (r *Router) send(ctx context.Context, chatID int64, text string) {
	if err := r.transport.SendMessage(ctx, chatID, text); err != nil {
		logrus.Warnf("Failed to send reply to chat %d: %v", chatID, err)
	}
}

// fetchAndEnrich composes the venue lookup with the aggregator enrichment.
// A nil venue result short-circuits: the aggregator is never consulted for
// a token the venue does not know.
func (r *Router) fetchAndEnrich(ctx context.Context, symbol string) *model.TokenRecord {
	venue := r.facade.TokenBySymbol(ctx, symbol)
	if venue == nil {
		return nil
	}
	gecko := r.facade.GeckoBySymbol(ctx, venue.Symbol)
	merged := model.Merge(venue, &gecko)
	return &merged
}

// handlePrice resolves a symbol on the venue, enriches it and formats the
// token block.
func (r *Router) handlePrice(ctx context.Context, chatID int64, input, tokenInput string) string {
	merged := r.fetchAndEnrich(ctx, tokenInput)
	if merged == nil {
		return MsgTokenNotFound
	}

	reply := FormatToken(*merged)
	r.logQuery(ctx, chatID, input, reply, serialize(merged))
	return reply
}

// handleToken behaves like handlePrice. When the classification carried no
// token, the symbol extractor gets a shot at the raw message before the
// message itself is used as the lookup key.
func (r *Router) handleToken(ctx context.Context, chatID int64, input, tokenInput string) string {
	key := strings.TrimSpace(tokenInput)
	if key == "" {
		key = r.facade.ExtractSymbol(ctx, input, chatID)
	}
	if key == "" {
		key = input
	}
	return r.handlePrice(ctx, chatID, input, key)
}

// handleAddress resolves a contract address, enriches it and appends the
// model's insight and safety assessment to the token block.
func (r *Router) handleAddress(ctx context.Context, chatID int64, input, tokenInput string) string {
	key := strings.TrimSpace(tokenInput)
	if key == "" {
		key = input
	}

	venue := r.facade.TokenByAddress(ctx, key)
	if venue == nil {
		return MsgTokenNotFound
	}
	gecko := r.facade.GeckoBySymbol(ctx, venue.Symbol)
	merged := model.Merge(venue, &gecko)

	analysis, err := r.facade.Analyze(ctx, merged, input, chatID)
	if err != nil {
		logrus.Warnf("Address insight failed for chat %d: %v", chatID, err)
		return MsgTokenNotFound
	}

	reply := FormatToken(merged) + "\n\n" + FormatInsight(analysis.Insight) + "\n" + FormatSafety(analysis.SafetyScore)
	r.logQuery(ctx, chatID, input, reply, serialize(merged))
	return reply
}

// handleCompare fetches and enriches every requested token concurrently,
// drops individual failures and proceeds with whatever subset succeeded.
func (r *Router) handleCompare(ctx context.Context, chatID int64, input, tokenInput string) string {
	var symbols []string
	for _, s := range strings.Split(tokenInput, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		return MsgCompareFailed
	}

	var wg sync.WaitGroup
	results := make([]*model.TokenRecord, len(symbols))
	for i, symbol := range symbols {
		wg.Add(1)
		go func(idx int, sym string) {
			defer wg.Done()
			results[idx] = r.fetchAndEnrich(ctx, sym)
		}(i, symbol)
	}
	wg.Wait()

	var records []model.TokenRecord
	for _, rec := range results {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	if len(records) == 0 {
		return MsgCompareFailed
	}

	analysis, err := r.facade.Analyze(ctx, records, input, chatID)
	if err != nil {
		logrus.Warnf("Compare insight failed for chat %d: %v", chatID, err)
		return MsgCompareFailed
	}

	blocks := make([]string, 0, len(records))
	for _, rec := range records {
		blocks = append(blocks, FormatToken(rec))
	}
	reply := strings.Join(blocks, "\n\n") + "\n\n" + FormatInsight(analysis.Insight)

	r.logQuery(ctx, chatID, input, reply, serialize(records))
	return reply
}

// handleTopTokens lists the top tokens by market cap with one shared
// insight. An empty listing short-circuits before any model call.
func (r *Router) handleTopTokens(ctx context.Context, chatID int64, input string) string {
	top := r.facade.TopTokens(ctx, input)
	if len(top) == 0 {
		return MsgTopTokensFailed
	}

	analysis, err := r.facade.Analyze(ctx, top, input, chatID)
	if err != nil {
		logrus.Warnf("Top tokens insight failed for chat %d: %v", chatID, err)
		return MsgTopTokensFailed
	}

	lines := make([]string, 0, len(top))
	for _, rec := range top {
		lines = append(lines, FormatTopToken(rec))
	}
	reply := "Here are some top tokens based on market data:\n" +
		strings.Join(lines, "\n") + "\n\n" + FormatInsight(analysis.Insight)

	r.logQuery(ctx, chatID, input, reply, serialize(top))
	return reply
}

// handleGeneral replies with the insight from the initial classification.
func (r *Router) handleGeneral(ctx context.Context, chatID int64, input, insight string) string {
	reply := FormatInsight(insight)
	r.logQuery(ctx, chatID, input, reply, "")
	return reply
}

// logQuery appends the exchange to the durable log. Failures are logged
// and swallowed; logging never blocks the response path.
func (r *Router) logQuery(ctx context.Context, chatID int64, input, response, tokenData string) {
	if err := r.logs.Append(ctx, chatID, input, response, tokenData); err != nil {
		logrus.Warnf("Failed to log query for chat %d: %v", chatID, err)
	}
}

func serialize(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

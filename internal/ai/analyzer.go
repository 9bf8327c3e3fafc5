package ai

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AlexMuhammad/telegram-token-assistant/internal/memory"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/model"
)

// historyLimit is the number of durable log entries pulled into the prompt.
const historyLimit = 10

// fallbackInsight is the apology returned when the model cannot be used.
const fallbackInsight = "I'm having trouble processing your request right now. Could you please rephrase your question or try again?"

// HistoryReader supplies the most recent durable log entries for a chat.
type HistoryReader interface {
	Recent(ctx context.Context, chatID int64, limit int) ([]model.QueryLogEntry, error)
}

// Analyzer classifies user queries and generates insights via the model,
// maintaining the per-chat transcript as a side effect.
type Analyzer struct {
	model   Model
	memory  *memory.Store
	history HistoryReader
}

// NewAnalyzer wires the analyzer to its collaborators. The transcript store
// is injected so tests can observe and reset it.
func NewAnalyzer(m Model, mem *memory.Store, history HistoryReader) *Analyzer {
	return &Analyzer{
		model:   m,
		memory:  mem,
		history: history,
	}
}

// FallbackAnalysis returns the deterministic substitute used when a model
// call or parse fails.
func FallbackAnalysis() model.Analysis {
	return model.Analysis{
		QueryType: model.QueryGeneral,
		Insight:   fallbackInsight,
	}
}

// Classify infers the user's intent and an insight from free text. It never
// fails past validation: any model or parse problem degrades to the fixed
// fallback analysis. On both success and fallback the exchange is appended
// to the chat's transcript best-effort.
func (a *Analyzer) Classify(ctx context.Context, tokenData interface{}, userInput string, chatID int64) (model.Analysis, error) {
	input := strings.TrimSpace(userInput)
	if input == "" {
		return model.Analysis{}, errors.New("user input is required")
	}
	if chatID < 0 {
		return model.Analysis{}, errors.New("valid chat ID is required")
	}

	result, err := a.classify(ctx, tokenData, input, chatID)
	if err != nil {
		logrus.Warnf("Classification failed for chat %d, using fallback: %v", chatID, err)
		result = FallbackAnalysis()
	}

	// Best-effort transcript write; a failed save never surfaces.
	a.memory.Append(chatID, input, result.Insight)

	return result, nil
}

func (a *Analyzer) classify(ctx context.Context, tokenData interface{}, input string, chatID int64) (model.Analysis, error) {
	serialized, err := json.MarshalIndent(tokenData, "", "  ")
	if err != nil {
		serialized = []byte("{}")
	}

	prompt := analysisPrompt(string(serialized), a.recentHistory(ctx, chatID), input)

	reply, err := a.model.Invoke(ctx, cryptoPrompt, prompt, a.memory.Turns(chatID))
	if err != nil {
		return model.Analysis{}, err
	}

	return parseAnalysis(reply)
}

// recentHistory formats the durable log into alternating turns. A store
// failure degrades to an empty history and never blocks classification.
func (a *Analyzer) recentHistory(ctx context.Context, chatID int64) string {
	entries, err := a.history.Recent(ctx, chatID, historyLimit)
	if err != nil {
		logrus.Warnf("Failed to load query history for chat %d: %v", chatID, err)
		return ""
	}

	var b strings.Builder
	for _, e := range entries {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("User: ")
		b.WriteString(e.Input)
		b.WriteString("\nAI: ")
		b.WriteString(e.Response)
	}
	return b.String()
}

// fenceRe captures the body of a ```-fenced block, with or without a
// language tag.
var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// parseAnalysis strips known wrapping markers from a model reply, then
// parses strictly. Any parse error is a classified failure for the caller
// to convert, not a crash.
func parseAnalysis(content string) (model.Analysis, error) {
	jsonStr := strings.TrimSpace(content)

	if m := fenceRe.FindStringSubmatch(jsonStr); m != nil {
		jsonStr = m[1]
	}
	jsonStr = strings.TrimSpace(strings.ReplaceAll(jsonStr, "```", ""))

	var result model.Analysis
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return model.Analysis{}, errors.New("could not parse model response as JSON")
	}
	if !result.QueryType.Valid() {
		return model.Analysis{}, errors.New("model response carries an unknown query type")
	}
	if result.Insight == "" {
		result.Insight = "No insight available"
	}
	return result, nil
}

// symbolRe matches the first standalone run of 2-10 uppercase letters.
var symbolRe = regexp.MustCompile(`\b([A-Z]{2,10})\b`)

// ExtractSymbol converts free text into a single canonical asset symbol.
// On model failure it falls back to a local heuristic over the raw message;
// it never fails past its boundary.
func (a *Analyzer) ExtractSymbol(ctx context.Context, userMessage string, chatID int64) string {
	if strings.TrimSpace(userMessage) == "" {
		return ""
	}

	reply, err := a.model.Invoke(ctx, symbolSystemPrompt, symbolPrompt(a.memory.Context(chatID), userMessage), nil)

	var symbol string
	if err != nil {
		logrus.Warnf("Symbol extraction failed for chat %d, using heuristic: %v", chatID, err)
		symbol = extractSymbolFallback(userMessage)
	} else {
		symbol = cleanSymbol(reply)
	}

	a.memory.Append(chatID, userMessage, symbol)
	return symbol
}

// cleanSymbol strips leading dollar signs and normalizes to uppercase.
func cleanSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(symbol), "$")))
}

// extractSymbolFallback finds the first ticker-looking run in the message,
// or returns an empty string.
func extractSymbolFallback(userMessage string) string {
	if m := symbolRe.FindStringSubmatch(userMessage); m != nil {
		return m[1]
	}
	return ""
}

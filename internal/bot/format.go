package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlexMuhammad/telegram-token-assistant/internal/model"
)

// FormatToken renders one TokenRecord as the standard token block. Every
// numeric field renders safely at zero; FDV and market cap lines appear
// only when nonzero.
func FormatToken(t model.TokenRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 Token: %s\n", t.Name)
	fmt.Fprintf(&b, "Chain: %s\n", t.Chain)
	fmt.Fprintf(&b, "Price: $%s\n", formatPrice(t.Price))
	fmt.Fprintf(&b, "Liquidity: $%s\n", formatAmount(t.Liquidity))

	if t.Transactions24h > 0 {
		fmt.Fprintf(&b, "Volume 24h: %s (%d txns)\n", formatAmount(t.Volume24h), t.Transactions24h)
	} else {
		fmt.Fprintf(&b, "Volume 24h: %s\n", formatAmount(t.Volume24h))
	}
	if t.FDV > 0 {
		fmt.Fprintf(&b, "FDV: $%s\n", formatAmount(t.FDV))
	}
	if t.MarketCap > 0 {
		fmt.Fprintf(&b, "Market Cap: $%s\n", formatAmount(t.MarketCap))
	}
	fmt.Fprintf(&b, "Address: %s", t.Address)

	return b.String()
}

// FormatTopToken renders one line of the top-tokens listing.
func FormatTopToken(t model.TokenRecord) string {
	return fmt.Sprintf("📈 %s: $%.8f, Market Cap: $%s", t.Name, t.Price, formatAmount(t.MarketCap))
}

// FormatInsight renders the AI insight section.
func FormatInsight(insight string) string {
	return "🧠 AI Insight:\n" + insight
}

// FormatSafety renders the safety score line. A missing score renders as
// zero with a placeholder explanation.
func FormatSafety(s *model.SafetyScore) string {
	score := 0
	explanation := "No explanation provided."
	if s != nil {
		score = s.Score
		if s.Explanation != "" {
			explanation = s.Explanation
		}
	}
	return fmt.Sprintf("🛡 Safety Score: %d%% - %s", score, explanation)
}

// formatPrice renders a price in plain decimal notation, preserving the
// precision of very small per-unit prices.
func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

// formatAmount renders a USD amount with thousands separators, keeping up
// to two decimals only when the value is fractional.
func formatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if fracPart != "00" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}

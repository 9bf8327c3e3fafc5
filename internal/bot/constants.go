// Package bot implements the per-message orchestration: intent dispatch,
// pipeline composition, reply formatting and durable logging.
package bot

// WelcomeMessage is the /start reply.
const WelcomeMessage = `Welcome to the Crypto Expert Bot! Ask anything about crypto: token prices (e.g., "What's the price of $PEPE?"), contract addresses (e.g., "Give me address PEPE"), or broader topics like "What's the future of DeFi?" or "Should I invest in Bitcoin ETFs?". Use /help for more info.`

// HelpMessage is the /help reply.
const HelpMessage = `
Ask anything about crypto! Examples:
- Token details: Send a contract address (any format, e.g., 7xKX... for Solana or 0x123... for Ethereum).
- Prices: "What's the price of $PEPE?"
- Contract address: "Give me address PEPE"
- Evaluations: "Is Popcat worth buying?"
- Trends: "What's trending in crypto?" or "Which are the best tokens to buy today?"
- General: "What's the future of DeFi?" or "Should I invest in Bitcoin ETFs?"
- /help: Show this message.
`

// Fixed user-facing failure messages, one per pipeline outcome.
const (
	MsgTokenNotFound = "❌ Sorry, I couldn't find data for that token.\nTry a valid token symbol (e.g., \"$PEPE\") or contract address."

	MsgCompareFailed = "❌ Sorry, I couldn't find data to compare the tokens.\nTry valid token symbols (e.g., \"PEPE,DOGE,SHIB\")."

	MsgTopTokensFailed = "❌ Sorry, I couldn't fetch top tokens right now.\nTry again later or ask about a specific token."

	MsgUnknownRequest = "❓ Sorry, I couldn't understand your request.\nTry a token symbol, contract address, or ask about crypto trends.\nUse /help for guidance."
)

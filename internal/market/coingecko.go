package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/AlexMuhammad/telegram-token-assistant/internal/model"
)

// topTokensCount is the N in the top-N market cap listing.
const topTokensCount = 5

// CoinGeckoClient implements the aggregator-style fetcher. Symbol lookups
// always yield a readable record: unknown symbols and transport failures
// produce a fully-defaulted TokenRecord, never an absent value.
type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko API client.
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: StandardClient(newRetryClient()),
	}
}

// coinPayload matches the relevant slice of a CoinGecko markets entry.
type coinPayload struct {
	Name            string  `json:"name"`
	Symbol          string  `json:"symbol"`
	CurrentPrice    float64 `json:"current_price"`
	TotalVolume     float64 `json:"total_volume"`
	FDV             float64 `json:"fully_diluted_valuation"`
	MarketCap       float64 `json:"market_cap"`
	ContractAddress string  `json:"contract_address"`
}

// FetchBySymbol returns market cap, price, volume and FDV for a symbol.
// Missing data or a failed request yields a defaulted record so callers can
// always read numeric fields off the result.
func (c *CoinGeckoClient) FetchBySymbol(ctx context.Context, symbol string) model.TokenRecord {
	endpoint := c.baseURL + "/coins/markets?vs_currency=usd&symbol=" + url.QueryEscape(strings.ToLower(symbol))

	coins, err := c.fetchMarkets(ctx, endpoint)
	if err != nil {
		logrus.Warnf("CoinGecko fetch for %s failed: %v", symbol, err)
		return model.EmptyTokenRecord()
	}
	if len(coins) == 0 {
		return model.EmptyTokenRecord()
	}
	return normalizeCoin(coins[0])
}

// FetchTop returns the top tokens by market capitalization as partial
// records. Failure yields an empty sequence.
func (c *CoinGeckoClient) FetchTop(ctx context.Context) []model.TokenRecord {
	endpoint := fmt.Sprintf("%s/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1",
		c.baseURL, topTokensCount)

	coins, err := c.fetchMarkets(ctx, endpoint)
	if err != nil {
		logrus.Warnf("CoinGecko top tokens fetch failed: %v", err)
		return nil
	}

	records := make([]model.TokenRecord, 0, len(coins))
	for _, coin := range coins {
		records = append(records, normalizeCoin(coin))
	}
	return records
}

func (c *CoinGeckoClient) fetchMarkets(ctx context.Context, endpoint string) ([]coinPayload, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logrus.Debugf("Fetching CoinGecko markets: %s", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching data from CoinGecko: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("CoinGecko API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var coins []coinPayload
	if err := json.NewDecoder(resp.Body).Decode(&coins); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return coins, nil
}

// normalizeCoin converts a raw markets entry into a partial TokenRecord.
// The aggregator carries no venue liquidity or transaction counts.
func normalizeCoin(coin coinPayload) model.TokenRecord {
	name := coin.Name
	if name == "" {
		name = "Unknown"
	}
	return model.TokenRecord{
		Name:      name,
		Chain:     chainFromAddress(coin.ContractAddress),
		Symbol:    strings.ToUpper(coin.Symbol),
		Address:   coin.ContractAddress,
		Price:     coin.CurrentPrice,
		Volume24h: coin.TotalVolume,
		FDV:       coin.FDV,
		MarketCap: coin.MarketCap,
	}
}

// chainFromAddress tags records carrying an EVM contract address as
// Ethereum. Everything else stays Unknown.
func chainFromAddress(address string) string {
	if common.IsHexAddress(address) {
		return "Ethereum"
	}
	return "Unknown"
}

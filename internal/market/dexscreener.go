package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AlexMuhammad/telegram-token-assistant/internal/model"
)

// DexScreenerClient implements the venue-style fetcher. Lookups that find no
// trading pair return (nil, nil); transport and decode problems return an
// error for the caller to absorb.
type DexScreenerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewDexScreenerClient creates a new DexScreener API client.
func NewDexScreenerClient(baseURL string) *DexScreenerClient {
	return &DexScreenerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: StandardClient(newRetryClient()),
	}
}

// pairPayload matches the relevant slice of a DexScreener pair object.
type pairPayload struct {
	ChainID   string `json:"chainId"`
	BaseToken struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceUSD  string `json:"priceUsd"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	FDV  float64 `json:"fdv"`
	Txns struct {
		H24 struct {
			Buys  int64 `json:"buys"`
			Sells int64 `json:"sells"`
		} `json:"h24"`
	} `json:"txns"`
}

// FetchBySymbol returns best-match trading pair data for a symbol, or
// (nil, nil) when the symbol is unknown to the venue.
func (c *DexScreenerClient) FetchBySymbol(ctx context.Context, symbol string) (*model.TokenRecord, error) {
	endpoint := c.baseURL + "/latest/dex/search?q=" + url.QueryEscape(symbol)
	logrus.Debugf("Fetching DexScreener pairs for symbol %s", symbol)
	return c.fetchBestPair(ctx, endpoint)
}

// FetchByAddress returns best-match trading pair data keyed by contract
// address, or (nil, nil) when no pair trades that address.
func (c *DexScreenerClient) FetchByAddress(ctx context.Context, address string) (*model.TokenRecord, error) {
	endpoint := c.baseURL + "/latest/dex/tokens/" + url.PathEscape(address)
	logrus.Debugf("Fetching DexScreener pairs for address %s", address)
	return c.fetchBestPair(ctx, endpoint)
}

func (c *DexScreenerClient) fetchBestPair(ctx context.Context, endpoint string) (*model.TokenRecord, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching data from DexScreener: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("DexScreener API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Pairs []pairPayload `json:"pairs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	best := bestPair(response.Pairs)
	if best == nil {
		return nil, nil
	}

	record := normalizePair(*best)
	return &record, nil
}

// bestPair picks the pair with the deepest liquidity, the closest thing the
// venue offers to a canonical market for a token.
func bestPair(pairs []pairPayload) *pairPayload {
	var best *pairPayload
	for i := range pairs {
		if best == nil || pairs[i].Liquidity.USD > best.Liquidity.USD {
			best = &pairs[i]
		}
	}
	return best
}

// normalizePair converts a raw pair payload into a partial TokenRecord.
// PriceUSD arrives as a string on the wire; an unparseable value defaults
// to zero rather than failing the lookup.
func normalizePair(p pairPayload) model.TokenRecord {
	price, err := strconv.ParseFloat(p.PriceUSD, 64)
	if err != nil {
		price = 0
	}
	return model.TokenRecord{
		Name:            p.BaseToken.Name,
		Chain:           chainName(p.ChainID),
		Symbol:          strings.ToUpper(p.BaseToken.Symbol),
		Address:         p.BaseToken.Address,
		Price:           price,
		Liquidity:       p.Liquidity.USD,
		Volume24h:       p.Volume.H24,
		FDV:             p.FDV,
		Transactions24h: p.Txns.H24.Buys + p.Txns.H24.Sells,
	}
}

// chainName maps a DexScreener chain identifier to a display name.
func chainName(chainID string) string {
	if chainID == "" {
		return "Unknown"
	}
	return strings.ToUpper(chainID[:1]) + chainID[1:]
}

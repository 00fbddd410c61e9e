package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cryptodash/cache"
	"cryptodash/logger"
	"cryptodash/model"
)

// coinAliases maps common tickers and shorthand to CoinGecko identifiers.
// Unrecognized entries pass through unchanged.
var coinAliases = map[string]string{
	"bitcoin":     "bitcoin",
	"btc":         "bitcoin",
	"ethereum":    "ethereum",
	"eth":         "ethereum",
	"binancecoin": "binancecoin",
	"bnb":         "binancecoin",
	"cardano":     "cardano",
	"ada":         "cardano",
	"solana":      "solana",
	"sol":         "solana",
	"ripple":      "ripple",
	"xrp":         "ripple",
	"polkadot":    "polkadot",
	"dot":         "polkadot",
	"dogecoin":    "dogecoin",
	"doge":        "dogecoin",
	"chainlink":   "chainlink",
	"link":        "chainlink",
	"litecoin":    "litecoin",
	"ltc":         "litecoin",
}

// CoinGeckoClient fetches cryptocurrency quotes.
type CoinGeckoClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *cache.ProviderCache
}

// NewCoinGeckoClient creates a quote client. cache may be nil.
func NewCoinGeckoClient(baseURL, apiKey string, httpClient *http.Client, c *cache.ProviderCache) *CoinGeckoClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &CoinGeckoClient{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient, cache: c}
}

// ResolveAssets normalizes user asset identifiers, applies the alias table
// and drops duplicates, preserving order.
func ResolveAssets(interestedAssets []string) []string {
	seen := make(map[string]bool, len(interestedAssets))
	resolved := make([]string, 0, len(interestedAssets))
	for _, asset := range interestedAssets {
		id := strings.ToLower(strings.TrimSpace(asset))
		if id == "" {
			continue
		}
		if mapped, ok := coinAliases[id]; ok {
			id = mapped
		}
		if !seen[id] {
			seen[id] = true
			resolved = append(resolved, id)
		}
	}
	return resolved
}

// GetCoinPrices returns quotes for the user's assets, or the top coins by
// market cap when no assets are set or the batched lookup comes back empty.
// Upstream failures yield an empty slice, never an error.
func (c *CoinGeckoClient) GetCoinPrices(ctx context.Context, interestedAssets []string, limit int) []model.Coin {
	if limit <= 0 {
		limit = 10
	}

	coinIDs := ResolveAssets(interestedAssets)
	if len(coinIDs) > 0 {
		if len(coinIDs) > limit {
			coinIDs = coinIDs[:limit]
		}
		coins, err := c.fetchSimplePrices(ctx, coinIDs)
		if err != nil {
			logger.Error("coingecko batched quote failed", logger.ErrorField(err))
		} else if len(coins) > 0 {
			return coins
		}
		// Empty batch result falls through to the market-cap listing.
	}

	coins, err := c.fetchTopMarkets(ctx, limit)
	if err != nil {
		logger.Error("coingecko markets listing failed", logger.ErrorField(err))
		return []model.Coin{}
	}
	return coins
}

// fetchSimplePrices issues one batched /simple/price call.
func (c *CoinGeckoClient) fetchSimplePrices(ctx context.Context, coinIDs []string) ([]model.Coin, error) {
	params := url.Values{}
	params.Set("ids", strings.Join(coinIDs, ","))
	params.Set("vs_currencies", "usd")
	params.Set("include_24hr_change", "true")
	params.Set("include_market_cap", "true")

	var payload map[string]struct {
		USD          float64 `json:"usd"`
		USD24hChange float64 `json:"usd_24h_change"`
		USDMarketCap float64 `json:"usd_market_cap"`
	}
	if err := c.getJSON(ctx, "/simple/price", params, &payload); err != nil {
		return nil, err
	}

	coins := make([]model.Coin, 0, len(payload))
	// Keep the requested order; the upstream map is unordered.
	for _, id := range coinIDs {
		entry, ok := payload[id]
		if !ok {
			continue
		}
		coins = append(coins, model.Coin{
			ID:             id,
			Name:           capitalize(id),
			PriceUSD:       entry.USD,
			PriceChange24h: entry.USD24hChange,
			MarketCap:      entry.USDMarketCap,
		})
	}
	return coins, nil
}

// fetchTopMarkets lists the top coins ranked by market capitalization.
func (c *CoinGeckoClient) fetchTopMarkets(ctx context.Context, limit int) ([]model.Coin, error) {
	key := cache.PriceKey("markets", limit)
	var cached []model.Coin
	if c.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", fmt.Sprintf("%d", limit))
	params.Set("page", "1")
	params.Set("sparkline", "false")

	var payload []struct {
		ID                 string  `json:"id"`
		Name               string  `json:"name"`
		Symbol             string  `json:"symbol"`
		CurrentPrice       float64 `json:"current_price"`
		PriceChangePct24h  float64 `json:"price_change_percentage_24h"`
		MarketCap          float64 `json:"market_cap"`
		Image              string  `json:"image"`
	}
	if err := c.getJSON(ctx, "/coins/markets", params, &payload); err != nil {
		return nil, err
	}

	coins := make([]model.Coin, 0, len(payload))
	for _, entry := range payload {
		coins = append(coins, model.Coin{
			ID:             entry.ID,
			Name:           entry.Name,
			Symbol:         strings.ToUpper(entry.Symbol),
			PriceUSD:       entry.CurrentPrice,
			PriceChange24h: entry.PriceChangePct24h,
			MarketCap:      entry.MarketCap,
			Image:          entry.Image,
		})
	}

	c.cache.Set(ctx, key, coins, cache.PriceTTL)
	return coins, nil
}

func (c *CoinGeckoClient) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"cryptodash/cache"
	"cryptodash/logger"
	"cryptodash/model"
)

// trackedCurrencies is the fixed symbol set the news feed is filtered to.
const trackedCurrencies = "BTC,ETH,BNB,ADA,SOL,XRP"

// CryptoPanicClient fetches curated cryptocurrency news.
type CryptoPanicClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *cache.ProviderCache
}

// NewCryptoPanicClient creates a news client. cache may be nil.
func NewCryptoPanicClient(baseURL, apiKey string, httpClient *http.Client, c *cache.ProviderCache) *CryptoPanicClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	return &CryptoPanicClient{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient, cache: c}
}

// GetCryptoNews returns up to limit hot news items. Any upstream failure
// yields the static fallback list so the news section is never empty.
func (c *CryptoPanicClient) GetCryptoNews(ctx context.Context, limit int) []model.NewsItem {
	if limit <= 0 {
		limit = 5
	}

	key := cache.NewsKey(limit)
	var cached []model.NewsItem
	if c.cache.Get(ctx, key, &cached) {
		return cached
	}

	items, err := c.fetchHotPosts(ctx, limit)
	if err != nil {
		logger.Error("cryptopanic hot posts failed", logger.ErrorField(err))
		return FallbackNews()
	}

	c.cache.Set(ctx, key, items, cache.NewsTTL)
	return items
}

func (c *CryptoPanicClient) fetchHotPosts(ctx context.Context, limit int) ([]model.NewsItem, error) {
	authToken := c.apiKey
	if authToken == "" {
		authToken = "public"
	}

	params := url.Values{}
	params.Set("auth_token", authToken)
	params.Set("public", "true")
	params.Set("filter", "hot")
	params.Set("currencies", trackedCurrencies)

	reqURL := c.baseURL + "/posts?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			ID    json.Number `json:"id"`
			Title string      `json:"title"`
			URL   string      `json:"url"`
			Source struct {
				Title string `json:"title"`
			} `json:"source"`
			PublishedAt string `json:"published_at"`
			Votes       struct {
				Positive int `json:"positive"`
			} `json:"votes"`
			Currencies []struct {
				Code string `json:"code"`
			} `json:"currencies"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := payload.Results
	if len(results) > limit {
		results = results[:limit]
	}

	items := make([]model.NewsItem, 0, len(results))
	for _, entry := range results {
		source := entry.Source.Title
		if source == "" {
			source = "CryptoPanic"
		}
		currencies := make([]string, 0, len(entry.Currencies))
		for _, cur := range entry.Currencies {
			currencies = append(currencies, cur.Code)
		}
		items = append(items, model.NewsItem{
			ID:          entry.ID.String(),
			Title:       entry.Title,
			URL:         entry.URL,
			Source:      source,
			PublishedAt: entry.PublishedAt,
			Votes:       entry.Votes.Positive,
			Currencies:  currencies,
		})
	}
	return items, nil
}

// FallbackNews is the static list served when the upstream feed fails.
func FallbackNews() []model.NewsItem {
	return []model.NewsItem{
		{
			ID:          "fallback-1",
			Title:       "Bitcoin continues to show strong market performance",
			URL:         "https://cryptopanic.com",
			Source:      "CryptoPanic",
			PublishedAt: "2024-01-01T00:00:00Z",
			Votes:       0,
			Currencies:  []string{"BTC"},
		},
		{
			ID:          "fallback-2",
			Title:       "Ethereum network upgrades improve transaction efficiency",
			URL:         "https://cryptopanic.com",
			Source:      "CryptoPanic",
			PublishedAt: "2024-01-01T00:00:00Z",
			Votes:       0,
			Currencies:  []string{"ETH"},
		},
		{
			ID:          "fallback-3",
			Title:       "Crypto market shows mixed signals as adoption grows",
			URL:         "https://cryptopanic.com",
			Source:      "CryptoPanic",
			PublishedAt: "2024-01-01T00:00:00Z",
			Votes:       0,
			Currencies:  []string{"BTC", "ETH"},
		},
	}
}

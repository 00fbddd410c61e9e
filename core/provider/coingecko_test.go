package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestResolveAssets(t *testing.T) {
	got := ResolveAssets([]string{" BTC ", "eth", "bitcoin", "Shibarium", "", "btc"})
	want := []string{"bitcoin", "ethereum", "shibarium"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveAssets = %v, want %v", got, want)
	}
}

func TestGetCoinPricesBatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if ids := r.URL.Query().Get("ids"); ids != "bitcoin,ethereum" {
			t.Errorf("ids = %q, want %q", ids, "bitcoin,ethereum")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"bitcoin": {"usd": 64000.5, "usd_24h_change": 1.2, "usd_market_cap": 1200000000},
			"ethereum": {"usd": 3100, "usd_24h_change": -0.4, "usd_market_cap": 380000000}
		}`))
	}))
	defer ts.Close()

	client := NewCoinGeckoClient(ts.URL, "", ts.Client(), nil)
	coins := client.GetCoinPrices(context.Background(), []string{"btc", "eth"}, 10)

	if len(coins) != 2 {
		t.Fatalf("got %d coins, want 2", len(coins))
	}
	if coins[0].ID != "bitcoin" || coins[0].Name != "Bitcoin" {
		t.Errorf("first coin = %+v", coins[0])
	}
	if coins[0].PriceUSD != 64000.5 || coins[0].PriceChange24h != 1.2 {
		t.Errorf("bitcoin quote = %+v", coins[0])
	}
	if coins[1].ID != "ethereum" {
		t.Errorf("second coin = %+v", coins[1])
	}
}

func TestGetCoinPricesFallsBackToMarkets(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/simple/price":
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		case "/coins/markets":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id": "bitcoin", "name": "Bitcoin", "symbol": "btc", "current_price": 64000,
				 "price_change_percentage_24h": 1.5, "market_cap": 1200000000, "image": "https://img/btc.png"}
			]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	client := NewCoinGeckoClient(ts.URL, "", ts.Client(), nil)
	coins := client.GetCoinPrices(context.Background(), []string{"btc"}, 5)

	if len(coins) != 1 {
		t.Fatalf("got %d coins, want 1 from markets fallback", len(coins))
	}
	if coins[0].Symbol != "BTC" || coins[0].Image == "" {
		t.Errorf("markets entry = %+v", coins[0])
	}
}

func TestGetCoinPricesEmptyAssetsUsesMarkets(t *testing.T) {
	var calledMarkets bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		calledMarkets = true
		if perPage := r.URL.Query().Get("per_page"); perPage != "10" {
			t.Errorf("per_page = %q, want 10", perPage)
		}
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := NewCoinGeckoClient(ts.URL, "", ts.Client(), nil)
	client.GetCoinPrices(context.Background(), nil, 10)

	if !calledMarkets {
		t.Error("markets endpoint was never called for an empty asset list")
	}
}

func TestGetCoinPricesAllUpstreamsFail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewCoinGeckoClient(ts.URL, "", ts.Client(), nil)
	coins := client.GetCoinPrices(context.Background(), []string{"btc"}, 5)

	if coins == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(coins) != 0 {
		t.Errorf("got %d coins, want 0", len(coins))
	}
}

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetCryptoNewsSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("filter"); got != "hot" {
			t.Errorf("filter = %q, want hot", got)
		}
		if got := r.URL.Query().Get("auth_token"); got != "public" {
			t.Errorf("auth_token = %q, want public with no key", got)
		}
		w.Write([]byte(`{"results": [
			{"id": 101, "title": "BTC rallies", "url": "https://n/1",
			 "source": {"title": "CoinDesk"}, "published_at": "2024-06-01T00:00:00Z",
			 "votes": {"positive": 12}, "currencies": [{"code": "BTC"}]},
			{"id": 102, "title": "ETH upgrade", "url": "https://n/2",
			 "source": {"title": ""}, "published_at": "2024-06-01T01:00:00Z",
			 "votes": {"positive": 3}, "currencies": [{"code": "ETH"}, {"code": "BTC"}]},
			{"id": 103, "title": "Third", "url": "https://n/3",
			 "source": {"title": "X"}, "published_at": "", "votes": {},
			 "currencies": []}
		]}`))
	}))
	defer ts.Close()

	client := NewCryptoPanicClient(ts.URL, "", ts.Client(), nil)
	items := client.GetCryptoNews(context.Background(), 2)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 after truncation", len(items))
	}
	if items[0].ID != "101" || items[0].Title != "BTC rallies" || items[0].Votes != 12 {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].Source != "CryptoPanic" {
		t.Errorf("empty source should default to CryptoPanic, got %q", items[1].Source)
	}
	if len(items[1].Currencies) != 2 || items[1].Currencies[0] != "ETH" {
		t.Errorf("currencies = %v", items[1].Currencies)
	}
}

func TestGetCryptoNewsFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewCryptoPanicClient(ts.URL, "key", ts.Client(), nil)
	items := client.GetCryptoNews(context.Background(), 5)

	if len(items) != 3 {
		t.Fatalf("got %d fallback items, want exactly 3", len(items))
	}
	for i, wantID := range []string{"fallback-1", "fallback-2", "fallback-3"} {
		if items[i].ID != wantID {
			t.Errorf("item %d id = %q, want %q", i, items[i].ID, wantID)
		}
		if items[i].Title == "" {
			t.Errorf("fallback item %d has empty title", i)
		}
	}
}

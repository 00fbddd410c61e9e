package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cryptodash/model"
)

func TestGenerateInsightNoAPIKey(t *testing.T) {
	client := NewInsightClient("https://should-not-be-called", "", "some-model", nil)
	prefs := &model.Preferences{
		InvestorType:     "HODLer",
		InterestedAssets: []string{"bitcoin", "ethereum"},
	}

	insight := client.GenerateInsight(context.Background(), prefs)

	if insight.Generated {
		t.Error("generated = true, want false without an API key")
	}
	if insight.Model != "default" {
		t.Errorf("model = %q, want %q", insight.Model, "default")
	}
	text := insight.Text
	if !strings.Contains(text, "HODLer") && !strings.Contains(text, "hodler") {
		t.Errorf("insight text does not mention the archetype: %q", text)
	}
	if !strings.Contains(text, "bitcoin") || !strings.Contains(text, "ethereum") {
		t.Errorf("insight text does not mention both assets: %q", text)
	}
}

func TestGenerateInsightNilPreferences(t *testing.T) {
	client := NewInsightClient("https://unused", "", "m", nil)
	insight := client.GenerateInsight(context.Background(), nil)

	if insight.Generated || insight.Model != "default" {
		t.Errorf("insight = %+v, want templated default", insight)
	}
	if !strings.Contains(insight.Text, "cryptocurrencies") {
		t.Errorf("default text should mention cryptocurrencies: %q", insight.Text)
	}
}

func TestDefaultInsightLimitsAssets(t *testing.T) {
	prefs := &model.Preferences{
		InvestorType:     "Day Trader",
		InterestedAssets: []string{"one", "two", "three", "four"},
	}
	insight := DefaultInsight(prefs)
	if strings.Contains(insight.Text, "four") {
		t.Errorf("more than 3 assets substituted: %q", insight.Text)
	}
}

func TestGenerateInsightSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "  Markets look steady today.  "}}]}`))
	}))
	defer ts.Close()

	client := NewInsightClient(ts.URL, "test-key", "test-model", ts.Client())
	insight := client.GenerateInsight(context.Background(), &model.Preferences{InvestorType: "HODLer"})

	if !insight.Generated {
		t.Error("generated = false, want true on success")
	}
	if insight.Model != "test-model" {
		t.Errorf("model = %q, want test-model", insight.Model)
	}
	if insight.Text != "Markets look steady today." {
		t.Errorf("text = %q, want trimmed completion", insight.Text)
	}
}

func TestGenerateInsightUpstreamErrorFallsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusPaymentRequired)
	}))
	defer ts.Close()

	client := NewInsightClient(ts.URL, "test-key", "test-model", ts.Client())
	insight := client.GenerateInsight(context.Background(), nil)

	if insight.Generated || insight.Model != "default" {
		t.Errorf("insight = %+v, want templated fallback on upstream error", insight)
	}
}

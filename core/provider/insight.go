package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"cryptodash/logger"
	"cryptodash/model"
)

// insightSystemPrompt is the fixed instruction sent with every completion
// request.
const insightSystemPrompt = "You are a helpful crypto market analyst providing daily insights."

const (
	insightMaxTokens   = 150
	insightTemperature = 0.7
)

// InsightClient generates a short daily market commentary via an
// OpenAI-compatible completion API.
type InsightClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewInsightClient creates an insight generator. An empty apiKey forces the
// templated fallback.
func NewInsightClient(baseURL, apiKey, modelName string, httpClient *http.Client) *InsightClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &InsightClient{baseURL: baseURL, apiKey: apiKey, model: modelName, httpClient: httpClient}
}

// GenerateInsight produces a market insight tailored to the user's
// preferences. Missing credentials or any call/parse failure degrade to a
// locally templated insight; no error escapes.
func (c *InsightClient) GenerateInsight(ctx context.Context, prefs *model.Preferences) model.Insight {
	if c.apiKey == "" {
		return DefaultInsight(prefs)
	}

	insight, err := c.requestCompletion(ctx, prefs)
	if err != nil {
		logger.Error("insight completion failed", logger.ErrorField(err))
		return DefaultInsight(prefs)
	}
	return insight
}

func (c *InsightClient) requestCompletion(ctx context.Context, prefs *model.Preferences) (model.Insight, error) {
	investorType := model.DefaultInvestorType
	var assets []string
	if prefs != nil {
		if prefs.InvestorType != "" {
			investorType = prefs.InvestorType
		}
		assets = prefs.InterestedAssets
	}

	assetsStr := "various cryptocurrencies"
	if len(assets) > 0 {
		assetsStr = strings.Join(assets, ", ")
	}

	prompt := fmt.Sprintf(`You are a crypto market analyst. Provide a brief, insightful daily market analysis (2-3 sentences) for a %s interested in %s.

Keep it concise, informative, and relevant to today's market conditions. Focus on actionable insights or interesting trends.`, investorType, assetsStr)

	reqBody := model.ChatCompletionRequest{
		Model: c.model,
		Messages: []model.ChatMessage{
			{Role: "system", Content: insightSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   insightMaxTokens,
		Temperature: insightTemperature,
		Stream:      false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return model.Insight{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return model.Insight{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", "https://crypto-dashboard.app")
	req.Header.Set("X-Title", "Crypto Dashboard")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Insight{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Insight{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload model.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.Insight{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.Error != nil {
		return model.Insight{}, fmt.Errorf("upstream error: %s", payload.Error.Message)
	}
	if len(payload.Choices) == 0 {
		return model.Insight{}, fmt.Errorf("empty choices in response")
	}

	return model.Insight{
		Text:      strings.TrimSpace(payload.Choices[0].Message.Content),
		Model:     c.model,
		Generated: true,
	}, nil
}

// DefaultInsight synthesizes a templated insight locally. The template is
// picked uniformly at random; callers should not rely on which one.
func DefaultInsight(prefs *model.Preferences) model.Insight {
	investorType := "Investor"
	assets := []string{"cryptocurrencies"}
	if prefs != nil {
		if prefs.InvestorType != "" {
			investorType = prefs.InvestorType
		}
		if len(prefs.InterestedAssets) > 0 {
			assets = prefs.InterestedAssets
		}
	}
	if len(assets) > 3 {
		assets = assets[:3]
	}
	assetsStr := strings.Join(assets, ", ")

	templates := []string{
		fmt.Sprintf("As a %s, keep an eye on %s. Market volatility presents both opportunities and risks. Consider your risk tolerance and investment horizon when making decisions.", investorType, assetsStr),
		fmt.Sprintf("Today's crypto market shows continued interest in %s. For %ss, maintaining a diversified portfolio and staying informed about market trends remains key.", assetsStr, strings.ToLower(investorType)),
		fmt.Sprintf("The %s markets are showing interesting patterns. %ss should monitor key support and resistance levels while keeping long-term fundamentals in mind.", assetsStr, investorType),
	}

	return model.Insight{
		Text:      templates[rand.Intn(len(templates))],
		Model:     "default",
		Generated: false,
	}
}

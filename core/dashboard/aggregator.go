// Package dashboard assembles the personalized dashboard payload from the
// provider adapters.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"cryptodash/core/fingerprint"
	"cryptodash/logger"
	"cryptodash/model"
	"cryptodash/repository"
)

// ErrUserNotFound signals that the authenticated identity no longer maps to
// a stored user.
var ErrUserNotFound = errors.New("user not found")

// Section result limits.
const (
	newsLimit  = 5
	priceLimit = 10
)

// PriceProvider returns quotes for the user's assets.
type PriceProvider interface {
	GetCoinPrices(ctx context.Context, interestedAssets []string, limit int) []model.Coin
}

// NewsProvider returns curated headlines.
type NewsProvider interface {
	GetCryptoNews(ctx context.Context, limit int) []model.NewsItem
}

// InsightProvider returns the AI market commentary.
type InsightProvider interface {
	GenerateInsight(ctx context.Context, prefs *model.Preferences) model.Insight
}

// MemeProvider returns a random image post.
type MemeProvider interface {
	GetRandomMeme(ctx context.Context) model.Meme
}

// Aggregator orchestrates the provider adapters per the user's content
// choices.
type Aggregator struct {
	users    repository.UserRepository
	prices   PriceProvider
	news     NewsProvider
	insights InsightProvider
	memes    MemeProvider
}

// NewAggregator wires an aggregator from its collaborators.
func NewAggregator(users repository.UserRepository, prices PriceProvider, news NewsProvider, insights InsightProvider, memes MemeProvider) *Aggregator {
	return &Aggregator{users: users, prices: prices, news: news, insights: insights, memes: memes}
}

// Result is the assembled dashboard plus the effective preferences it was
// built with.
type Result struct {
	Dashboard   model.Dashboard
	Preferences model.EffectivePreferences
}

// Build loads the user, applies preference defaults and fans out to the
// enabled section adapters. Adapter outputs are independent, so sections run
// concurrently; a panicking adapter degrades only its own section.
func (a *Aggregator) Build(ctx context.Context, userID int64) (*Result, error) {
	user, err := a.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	prefs, err := repository.DecodePreferences(user)
	if err != nil {
		// A corrupt preference blob should not take the dashboard down.
		logger.Warn("stored preferences unreadable, using defaults",
			logger.Int64("userId", userID), logger.ErrorField(err))
		prefs = nil
	}

	effective := effectivePreferences(prefs)
	enabled := make(map[string]bool, len(effective.ContentTypes))
	for _, ct := range effective.ContentTypes {
		enabled[ct] = true
	}

	result := &Result{
		Dashboard: model.Dashboard{
			News:   []model.NewsItem{},
			Prices: []model.Coin{},
		},
		Preferences: effective,
	}

	var wg sync.WaitGroup

	if enabled[model.ContentTypeMarketNews] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer recoverSection("news")
			items := a.news.GetCryptoNews(ctx, newsLimit)
			for i := range items {
				items[i].ContentHash = fingerprint.Compute(
					fingerprint.NewsDescriptor(items[i].ID, items[i].Title))
			}
			result.Dashboard.News = items
		}()
	}

	if enabled[model.ContentTypeCharts] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer recoverSection("prices")
			coins := a.prices.GetCoinPrices(ctx, effective.InterestedAssets, priceLimit)
			for i := range coins {
				coins[i].ContentHash = fingerprint.Compute(
					fingerprint.CoinDescriptor(coins[i].ID, coins[i].Name))
			}
			result.Dashboard.Prices = coins
		}()
	}

	if enabled[model.ContentTypeSocial] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer recoverSection("insight")
			insight := a.insights.GenerateInsight(ctx, prefs)
			insight.ContentHash = fingerprint.Compute(
				fingerprint.InsightDescriptor(insight.Text, user.UpdatedAt.UTC().Format(time.RFC3339)))
			result.Dashboard.Insight = &insight
		}()
	}

	if enabled[model.ContentTypeFun] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer recoverSection("meme")
			meme := a.memes.GetRandomMeme(ctx)
			meme.ContentHash = fingerprint.Compute(
				fingerprint.MemeDescriptor(meme.ID, meme.URL))
			result.Dashboard.Meme = &meme
		}()
	}

	wg.Wait()
	return result, nil
}

// effectivePreferences applies the onboarding defaults: General Investor, no
// assets and model.DefaultContentTypes when nothing was chosen.
func effectivePreferences(prefs *model.Preferences) model.EffectivePreferences {
	effective := model.EffectivePreferences{
		InvestorType:     model.DefaultInvestorType,
		InterestedAssets: []string{},
		ContentTypes:     model.DefaultContentTypes,
	}
	if prefs == nil {
		return effective
	}
	if prefs.InvestorType != "" {
		effective.InvestorType = prefs.InvestorType
	}
	if prefs.InterestedAssets != nil {
		effective.InterestedAssets = prefs.InterestedAssets
	}
	if len(prefs.ContentTypes) > 0 {
		effective.ContentTypes = prefs.ContentTypes
	}
	return effective
}

// recoverSection absorbs a panic from one section adapter, leaving that
// section degraded instead of failing the request.
func recoverSection(section string) {
	if r := recover(); r != nil {
		logger.Error("dashboard section panicked",
			logger.String("section", section), logger.Any("panic", r))
	}
}

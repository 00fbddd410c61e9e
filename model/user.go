package model

import (
	"database/sql"
	"time"
)

// User represents a registered user.
type User struct {
	ID           int64          `json:"id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	PasswordHash string         `json:"-"` // Not exposed in API responses
	Preferences  sql.NullString `json:"-"` // JSON-encoded Preferences, nil until onboarding
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Preferences holds the content choices a user makes during onboarding.
// Preferences are replaced wholesale on update, never merged.
type Preferences struct {
	InvestorType     string    `json:"investor_type"`
	InterestedAssets []string  `json:"interested_assets"`
	ContentTypes     []string  `json:"content_types"`
	CreatedAt        time.Time `json:"created_at"`
}

// Valid investor archetypes.
var ValidInvestorTypes = []string{
	"HODLer",
	"Day Trader",
	"NFT Collector",
	"DeFi Enthusiast",
	"General Investor",
}

// DefaultInvestorType is assigned when onboarding omits an archetype.
const DefaultInvestorType = "General Investor"

// Dashboard section categories a user can opt into.
const (
	ContentTypeMarketNews = "Market News"
	ContentTypeCharts     = "Charts"
	ContentTypeSocial     = "Social"
	ContentTypeFun        = "Fun"
)

// ValidContentTypes lists every selectable dashboard category.
var ValidContentTypes = []string{
	ContentTypeMarketNews,
	ContentTypeCharts,
	ContentTypeSocial,
	ContentTypeFun,
}

// DefaultContentTypes is the policy for an empty or unset category list:
// a user who has not picked anything sees the Market News section.
var DefaultContentTypes = []string{ContentTypeMarketNews}

// IsValidInvestorType reports whether t is a known archetype.
func IsValidInvestorType(t string) bool {
	for _, v := range ValidInvestorTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsValidContentType reports whether ct is a known dashboard category.
func IsValidContentType(ct string) bool {
	for _, v := range ValidContentTypes {
		if ct == v {
			return true
		}
	}
	return false
}

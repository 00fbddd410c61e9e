package model

// Coin is one quoted asset on the prices section. Symbol and Image are only
// populated by the top-market-cap listing.
type Coin struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Symbol         string  `json:"symbol,omitempty"`
	PriceUSD       float64 `json:"price_usd"`
	PriceChange24h float64 `json:"price_change_24h"`
	MarketCap      float64 `json:"market_cap"`
	Image          string  `json:"image,omitempty"`
	ContentHash    string  `json:"content_hash,omitempty"`
}

// NewsItem is one headline on the news section.
type NewsItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
	PublishedAt string   `json:"published_at"`
	Votes       int      `json:"votes"`
	Currencies  []string `json:"currencies"`
	ContentHash string   `json:"content_hash,omitempty"`
}

// Insight is the AI-generated (or templated) market commentary.
type Insight struct {
	Text        string `json:"text"`
	Model       string `json:"model"`
	Generated   bool   `json:"generated"`
	ContentHash string `json:"content_hash,omitempty"`
}

// Meme is one image post for the fun section.
type Meme struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	Description string `json:"description"`
	ContentHash string `json:"content_hash,omitempty"`
}

// Dashboard groups the four content sections. Sections the user has not
// enabled stay zero-valued.
type Dashboard struct {
	News     []NewsItem `json:"news"`
	Prices   []Coin     `json:"prices"`
	Insight  *Insight   `json:"ai_insight"`
	Meme     *Meme      `json:"meme"`
}

// EffectivePreferences is the preference view the dashboard was assembled
// with, defaults applied.
type EffectivePreferences struct {
	InvestorType     string   `json:"investor_type"`
	InterestedAssets []string `json:"interested_assets"`
	ContentTypes     []string `json:"content_types"`
}

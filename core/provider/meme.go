package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"cryptodash/logger"
	"cryptodash/model"
)

// memeFeeds are the topic feeds scanned for image posts, tried in order.
var memeFeeds = []string{"cryptocurrencymemes", "bitcoinmemes", "cryptomemes"}

const (
	memeFeedPostLimit  = 25
	memeDescriptionMax = 200
)

// imageExtensions mark a URL as a direct image.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// imageHosts are domains that always serve direct images.
var imageHosts = []string{"i.redd.it", "i.imgur.com"}

// MemeClient serves a random crypto meme. It never fails: feeds are tried
// first, then the bundled collection, then a hardcoded trio.
type MemeClient struct {
	feedBaseURL string
	httpClient  *http.Client

	mu      sync.RWMutex
	bundled []model.Meme
	watcher *fsnotify.Watcher
}

// NewMemeClient creates a meme client and loads the bundled collection from
// memesFile. The file is watched and reloaded on change; a missing or broken
// file just leaves the bundled rung empty.
func NewMemeClient(feedBaseURL, memesFile string, httpClient *http.Client) *MemeClient {
	if httpClient == nil {
		httpClient = defaultHTTPClient()
	}
	c := &MemeClient{feedBaseURL: feedBaseURL, httpClient: httpClient}
	c.loadBundled(memesFile)
	c.watchBundled(memesFile)
	return c
}

// GetRandomMeme returns a meme, first success wins: live feed post, bundled
// collection, hardcoded fallback.
func (c *MemeClient) GetRandomMeme(ctx context.Context) model.Meme {
	for _, feed := range memeFeeds {
		meme, ok := c.pickFromFeed(ctx, feed)
		if ok {
			return meme
		}
	}

	c.mu.RLock()
	bundled := c.bundled
	c.mu.RUnlock()
	if len(bundled) > 0 {
		return bundled[rand.Intn(len(bundled))]
	}

	return FallbackMeme()
}

// pickFromFeed fetches recent posts from one topic feed and picks a random
// qualifying image post. Errors and empty feeds report ok=false.
func (c *MemeClient) pickFromFeed(ctx context.Context, feed string) (model.Meme, bool) {
	reqURL := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", c.feedBaseURL, feed, memeFeedPostLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		logger.Error("meme feed request build failed", logger.String("feed", feed), logger.ErrorField(err))
		return model.Meme{}, false
	}
	// Feed rejects the default Go user agent.
	req.Header.Set("User-Agent", "crypto-dashboard/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("meme feed unreachable", logger.String("feed", feed), logger.ErrorField(err))
		return model.Meme{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("meme feed returned error status",
			logger.String("feed", feed), logger.Int("status", resp.StatusCode))
		return model.Meme{}, false
	}

	var payload struct {
		Data struct {
			Children []struct {
				Data feedPost `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Warn("meme feed payload malformed", logger.String("feed", feed), logger.ErrorField(err))
		return model.Meme{}, false
	}

	var candidates []feedPost
	for _, child := range payload.Data.Children {
		if child.Data.qualifies() {
			candidates = append(candidates, child.Data)
		}
	}
	if len(candidates) == 0 {
		return model.Meme{}, false
	}

	post := candidates[rand.Intn(len(candidates))]
	description := post.Selftext
	if len(description) > memeDescriptionMax {
		description = description[:memeDescriptionMax]
	}
	return model.Meme{
		ID:          post.ID,
		URL:         post.URL,
		Title:       post.Title,
		Source:      "r/" + feed,
		Description: description,
	}, true
}

// feedPost is the subset of a feed post entry the filter needs.
type feedPost struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Selftext  string `json:"selftext"`
	Stickied  bool   `json:"stickied"`
	Over18    bool   `json:"over_18"`
	IsGallery bool   `json:"is_gallery"`
	PostHint  string `json:"post_hint"`
}

// qualifies keeps only unpinned, safe, single-image posts whose target URL is
// a direct image and not a link back into the feed platform.
func (p feedPost) qualifies() bool {
	if p.Stickied || p.Over18 || p.IsGallery {
		return false
	}
	if p.URL == "" || strings.Contains(p.URL, "reddit.com") {
		return false
	}

	lowered := strings.ToLower(p.URL)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	for _, host := range imageHosts {
		if strings.Contains(lowered, host) {
			return true
		}
	}
	return p.PostHint == "image"
}

// loadBundled reads the static meme collection.
func (c *MemeClient) loadBundled(path string) {
	if path == "" {
		return
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("bundled memes unavailable", logger.String("path", path), logger.ErrorField(err))
		return
	}

	var memes []model.Meme
	if err := json.Unmarshal(raw, &memes); err != nil {
		logger.Warn("bundled memes malformed", logger.String("path", path), logger.ErrorField(err))
		return
	}

	c.mu.Lock()
	c.bundled = memes
	c.mu.Unlock()
	logger.Info("bundled memes loaded", logger.String("path", path), logger.Int("count", len(memes)))
}

// watchBundled reloads the collection when the file changes on disk.
func (c *MemeClient) watchBundled(path string) {
	if path == "" {
		return
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("meme file watcher unavailable", logger.ErrorField(err))
		return
	}
	if err := watcher.Add(path); err != nil {
		logger.Warn("meme file watch failed", logger.String("path", path), logger.ErrorField(err))
		watcher.Close()
		return
	}
	c.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					c.loadBundled(path)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("meme file watcher error", logger.ErrorField(err))
			}
		}
	}()
}

// Close stops the bundled-file watcher.
func (c *MemeClient) Close() error {
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

// FallbackMeme picks one of the hardcoded memes at random.
func FallbackMeme() model.Meme {
	fallbacks := FallbackMemes()
	return fallbacks[rand.Intn(len(fallbacks))]
}

// FallbackMemes is the last-resort static trio.
func FallbackMemes() []model.Meme {
	return []model.Meme{
		{
			ID:          "fallback-1",
			URL:         "https://i.redd.it/crypto-meme-1.jpg",
			Title:       "HODL Strong",
			Source:      "Reddit",
			Description: "Classic HODL meme",
		},
		{
			ID:          "fallback-2",
			URL:         "https://i.redd.it/crypto-meme-2.jpg",
			Title:       "To The Moon",
			Source:      "Reddit",
			Description: "Moon meme",
		},
		{
			ID:          "fallback-3",
			URL:         "https://i.redd.it/crypto-meme-3.jpg",
			Title:       "Diamond Hands",
			Source:      "Reddit",
			Description: "Diamond hands meme",
		},
	}
}

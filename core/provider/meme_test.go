package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFeedPostQualifies(t *testing.T) {
	tests := []struct {
		name string
		post feedPost
		want bool
	}{
		{"direct jpg", feedPost{URL: "https://i.redd.it/abc.jpg"}, true},
		{"direct png uppercase", feedPost{URL: "https://somewhere.com/ABC.PNG"}, true},
		{"image host without extension", feedPost{URL: "https://i.imgur.com/abc"}, true},
		{"post hint image", feedPost{URL: "https://cdn.example.com/x", PostHint: "image"}, true},
		{"stickied", feedPost{URL: "https://i.redd.it/abc.jpg", Stickied: true}, false},
		{"nsfw", feedPost{URL: "https://i.redd.it/abc.jpg", Over18: true}, false},
		{"gallery", feedPost{URL: "https://i.redd.it/abc.jpg", IsGallery: true}, false},
		{"link back into platform", feedPost{URL: "https://www.reddit.com/r/x/comments/1"}, false},
		{"empty url", feedPost{}, false},
		{"plain web page", feedPost{URL: "https://example.com/article"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.qualifies(); got != tt.want {
				t.Errorf("qualifies() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetRandomMemeFromFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/r/cryptocurrencymemes/") {
			// Only the first feed responds; the test never reaches the others.
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"data": {"children": [
			{"data": {"id": "p1", "title": "Pinned", "url": "https://i.redd.it/a.jpg", "stickied": true}},
			{"data": {"id": "p2", "title": "Good one", "url": "https://i.redd.it/b.jpg",
			          "selftext": "` + strings.Repeat("x", 300) + `"}}
		]}}`))
	}))
	defer ts.Close()

	client := NewMemeClient(ts.URL, "", ts.Client())
	meme := client.GetRandomMeme(context.Background())

	if meme.ID != "p2" {
		t.Fatalf("meme id = %q, want the only qualifying post p2", meme.ID)
	}
	if meme.Source != "r/cryptocurrencymemes" {
		t.Errorf("source = %q", meme.Source)
	}
	if len(meme.Description) != 200 {
		t.Errorf("description length = %d, want truncation to 200", len(meme.Description))
	}
}

func TestGetRandomMemeBundledFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "memes.json")
	content := `[{"id": "bundled-1", "url": "https://i.redd.it/x.jpg", "title": "Bundled", "source": "Reddit", "description": "d"}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	client := NewMemeClient(ts.URL, path, ts.Client())
	defer client.Close()
	meme := client.GetRandomMeme(context.Background())

	if meme.ID != "bundled-1" {
		t.Errorf("meme id = %q, want the bundled entry", meme.ID)
	}
}

func TestGetRandomMemeTotalFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewMemeClient(ts.URL, filepath.Join(t.TempDir(), "missing.json"), ts.Client())
	meme := client.GetRandomMeme(context.Background())

	valid := map[string]bool{"fallback-1": true, "fallback-2": true, "fallback-3": true}
	if !valid[meme.ID] {
		t.Errorf("meme id = %q, want one of the hardcoded fallbacks", meme.ID)
	}
	if meme.URL == "" || meme.Title == "" {
		t.Errorf("fallback meme incomplete: %+v", meme)
	}
}

// Package fingerprint derives the deterministic content hash that correlates
// feedback votes with dashboard items across requests.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Compute canonicalizes the descriptor and returns its SHA-256 digest as
// lowercase hex. encoding/json serializes map keys in sorted order, so two
// descriptors with the same key/value pairs always hash identically.
func Compute(descriptor map[string]string) string {
	// A map of strings cannot fail to marshal.
	canonical, _ := json.Marshal(descriptor)
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// CoinDescriptor describes a quoted asset.
func CoinDescriptor(id, name string) map[string]string {
	return map[string]string{"type": "price", "id": id, "name": name}
}

// NewsDescriptor describes a headline.
func NewsDescriptor(id, title string) map[string]string {
	return map[string]string{"type": "news", "id": id, "title": title}
}

// InsightDescriptor describes a generated insight. The date pins the digest
// to the preference revision the insight was built from.
func InsightDescriptor(text, date string) map[string]string {
	return map[string]string{"type": "insight", "text": text, "date": date}
}

// MemeDescriptor describes an image post.
func MemeDescriptor(id, url string) map[string]string {
	return map[string]string{"type": "meme", "id": id, "url": url}
}

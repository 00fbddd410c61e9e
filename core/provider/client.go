// Package provider holds one adapter per external data source. Each adapter
// normalizes the upstream payload into model types and converts every
// upstream failure into a local fallback; no adapter returns an error to its
// caller for upstream conditions.
package provider

import (
	"net/http"
	"time"
)

// defaultHTTPClient is shared by adapters that are not handed a client. One
// fixed timeout per call, no retries; a failed attempt goes straight to the
// adapter's fallback.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

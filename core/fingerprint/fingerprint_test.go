package fingerprint

import (
	"regexp"
	"testing"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestComputeDeterminism(t *testing.T) {
	a := Compute(map[string]string{"type": "price", "id": "bitcoin", "name": "Bitcoin"})
	b := Compute(map[string]string{"name": "Bitcoin", "id": "bitcoin", "type": "price"})

	if a != b {
		t.Errorf("same descriptor hashed differently: %s vs %s", a, b)
	}
	if !hexDigest.MatchString(a) {
		t.Errorf("digest is not 64 lowercase hex chars: %s", a)
	}
}

func TestComputeStableAcrossCalls(t *testing.T) {
	desc := NewsDescriptor("123", "Bitcoin hits new high")
	first := Compute(desc)
	for i := 0; i < 10; i++ {
		if got := Compute(NewsDescriptor("123", "Bitcoin hits new high")); got != first {
			t.Fatalf("digest changed between calls: %s vs %s", got, first)
		}
	}
}

func TestComputeSensitivity(t *testing.T) {
	base := Compute(map[string]string{"type": "price", "id": "bitcoin", "name": "Bitcoin"})

	variants := []map[string]string{
		{"type": "price", "id": "ethereum", "name": "Bitcoin"},
		{"type": "price", "id": "bitcoin", "name": "bitcoin"},
		{"type": "news", "id": "bitcoin", "name": "Bitcoin"},
		{"type": "price", "id": "bitcoin"},
	}
	for i, v := range variants {
		if Compute(v) == base {
			t.Errorf("variant %d collided with base descriptor", i)
		}
	}
}

func TestDescriptorShapes(t *testing.T) {
	tests := []struct {
		name string
		desc map[string]string
		want map[string]string
	}{
		{"coin", CoinDescriptor("bitcoin", "Bitcoin"), map[string]string{"type": "price", "id": "bitcoin", "name": "Bitcoin"}},
		{"news", NewsDescriptor("42", "Title"), map[string]string{"type": "news", "id": "42", "title": "Title"}},
		{"insight", InsightDescriptor("text", "2024-01-01"), map[string]string{"type": "insight", "text": "text", "date": "2024-01-01"}},
		{"meme", MemeDescriptor("m1", "https://x/y.jpg"), map[string]string{"type": "meme", "id": "m1", "url": "https://x/y.jpg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.desc) != len(tt.want) {
				t.Fatalf("descriptor has %d keys, want %d", len(tt.desc), len(tt.want))
			}
			for k, v := range tt.want {
				if tt.desc[k] != v {
					t.Errorf("descriptor[%q] = %q, want %q", k, tt.desc[k], v)
				}
			}
		})
	}
}

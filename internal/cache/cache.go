// Package cache stores fully rendered response payloads keyed by route and
// parameters. Entries expire after a fixed TTL; concurrent misses for the
// same key may each compute the payload, last write wins.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Store is a response payload cache. Get returns the stored payload and
// whether it was present and fresh.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration)
}

// Key derives a cache key from a route identity and its parameter values.
// Parameter order is significant.
func Key(route string, params ...string) string {
	h := sha256.New()
	h.Write([]byte(route))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(params, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}

package cachex

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys for the two upstream payloads this service proxies.
const (
	KeyCatalog = "pricer:catalog"
	KeyOptions = "pricer:options"

	missPrefix = "pricer:miss:"
	lockPrefix = "pricer:lock:"
)

type Client struct{ Rdb *redis.Client }

func New(addr string, password string, db int) *Client {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return &Client{Rdb: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Rdb.Ping(ctx).Err()
}

// Envelope wraps a cached upstream payload with freshness metadata so a
// stale copy can be served immediately while a background refresh runs.
type Envelope struct {
	Payload json.RawMessage `json:"payload"`
	Meta    struct {
		FetchedAt  time.Time `json:"fetched_at"`
		StaleAfter time.Time `json:"stale_after"`
		TTLSeconds int       `json:"ttl_seconds"`
		Source     string    `json:"source"`
	} `json:"meta"`
}

// Stale reports whether the copy is past its stale-after point but still
// within TTL.
func (e Envelope) Stale() bool {
	return time.Now().After(e.Meta.StaleAfter)
}

// GetEnvelope returns the cached envelope for key, if any.
func (c *Client) GetEnvelope(ctx context.Context, key string) (Envelope, bool) {
	if c == nil {
		return Envelope{}, false
	}
	val, err := c.Rdb.Get(ctx, key).Result()
	if err != nil || val == "" {
		return Envelope{}, false
	}
	var env Envelope
	if err := json.Unmarshal([]byte(val), &env); err != nil {
		return Envelope{}, false
	}
	return env, true
}

// PutEnvelope stores payload under key with the given TTL and staleness
// horizon.
func (c *Client) PutEnvelope(ctx context.Context, key string, payload []byte, ttl, staleAfter time.Duration, source string) error {
	if c == nil {
		return nil
	}
	var env Envelope
	env.Payload = append(json.RawMessage(nil), payload...)
	env.Meta.FetchedAt = time.Now()
	env.Meta.StaleAfter = env.Meta.FetchedAt.Add(staleAfter)
	env.Meta.TTLSeconds = int(ttl.Seconds())
	env.Meta.Source = source
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.Rdb.Set(ctx, key, string(b), ttl).Err()
}

// MarkMiss records a short negative-cache entry after an upstream failure
// so a broken backend is not hammered on every request.
func (c *Client) MarkMiss(ctx context.Context, key string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	return c.Rdb.Set(ctx, missPrefix+key, "1", ttl).Err()
}

// IsMiss reports whether key is inside its negative-cache cooldown.
func (c *Client) IsMiss(ctx context.Context, key string) bool {
	if c == nil {
		return false
	}
	n, err := c.Rdb.Exists(ctx, missPrefix+key).Result()
	return err == nil && n == 1
}

// TryLock takes a short refresh lock for key to avoid fetch stampedes.
func (c *Client) TryLock(ctx context.Context, key string, ttl time.Duration) bool {
	if c == nil {
		return true
	}
	ok, err := c.Rdb.SetNX(ctx, lockPrefix+key, "1", ttl).Result()
	return err == nil && ok
}

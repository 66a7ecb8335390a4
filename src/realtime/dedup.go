package realtime

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduplicator suppresses repeat firings of the same logical activity within
// a cool-down window. It guards only low-value activity events; booking and
// room-status events never pass through it.
//
// State lives in redis under a TTL, so expiry and memory bounds come for
// free and all API instances share one window.
type Deduplicator struct {
	rdb    *redis.Client
	window time.Duration
}

func NewDeduplicator(rdb *redis.Client, window time.Duration) *Deduplicator {
	return &Deduplicator{rdb: rdb, window: window}
}

// ActivityKey builds the composite (action, entity) dedup key.
func ActivityKey(action string, entityID uint) string {
	return fmt.Sprintf("activity:%s:%d", action, entityID)
}

// ShouldFire reports whether the key is outside its cool-down window and, if
// so, re-arms the window. A redis failure fails open: a duplicate activity
// ping is cheaper than a lost one.
func (d *Deduplicator) ShouldFire(ctx context.Context, key string, window time.Duration) bool {
	if window <= 0 {
		window = d.window
	}
	ok, err := d.rdb.SetNX(ctx, key, time.Now().Unix(), window).Result()
	if err != nil {
		log.Printf("[dedup] %s: %s\n", key, err.Error())
		return true
	}
	return ok
}

package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestActivityKey(t *testing.T) {
	assert.Equal(t, "activity:dashboard-view:7", ActivityKey("dashboard-view", 7))
	assert.Equal(t, "activity:task-complete:12", ActivityKey("task-complete", 12))
}

// A burst of identical activities inside the window fires once; the next
// occurrence after expiry fires again.
func TestShouldFireCoolDown(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	dedup := NewDeduplicator(rdb, 30*time.Second)
	key := ActivityKey("dashboard-view", 7)

	mock.Regexp().ExpectSetNX(key, `[0-9]+`, 30*time.Second).SetVal(true)
	mock.Regexp().ExpectSetNX(key, `[0-9]+`, 30*time.Second).SetVal(false)
	mock.Regexp().ExpectSetNX(key, `[0-9]+`, 30*time.Second).SetVal(true)

	ctx := context.Background()
	assert.True(t, dedup.ShouldFire(ctx, key, 0))
	assert.False(t, dedup.ShouldFire(ctx, key, 0))
	assert.True(t, dedup.ShouldFire(ctx, key, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShouldFireCustomWindow(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	dedup := NewDeduplicator(rdb, 30*time.Second)
	key := ActivityKey("task-complete", 3)

	mock.Regexp().ExpectSetNX(key, `[0-9]+`, 5*time.Minute).SetVal(true)

	assert.True(t, dedup.ShouldFire(context.Background(), key, 5*time.Minute))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Redis being down must not swallow activity events.
func TestShouldFireFailsOpen(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	dedup := NewDeduplicator(rdb, 30*time.Second)
	key := ActivityKey("dashboard-view", 7)

	mock.Regexp().ExpectSetNX(key, `[0-9]+`, 30*time.Second).SetErr(errors.New("connection refused"))

	assert.True(t, dedup.ShouldFire(context.Background(), key, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

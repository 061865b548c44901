// internal/memory/memory_test.go
package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"carwash-assistant/internal/common/database"
	"carwash-assistant/internal/common/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestRedis(t *testing.T) *database.RedisClient {
	t.Helper()
	mr := miniredis.RunT(t)
	return &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
}

func entry(q string) Entry {
	return Entry{Query: q, Intent: "dashboard", Timestamp: time.Date(2025, time.March, 13, 12, 0, 0, 0, time.UTC)}
}

// ==========================
// Ring Semantics
// ==========================

func TestMemory_DropOldestAtCapacity(t *testing.T) {
	m := New(3, nil, logger.NewNoOpLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Add(ctx, entry(fmt.Sprintf("q%d", i))))
	}

	assert.Equal(t, 3, m.Len())
	recent := m.Recent(3)
	require.Len(t, recent, 3)
	// Newest first; q0 and q1 were dropped.
	assert.Equal(t, "q4", recent[0].Query)
	assert.Equal(t, "q3", recent[1].Query)
	assert.Equal(t, "q2", recent[2].Query)
}

func TestMemory_ZeroSizeIsRaisedToOne(t *testing.T) {
	m := New(0, nil, logger.NewNoOpLogger())
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, entry("q1")))
	require.NoError(t, m.Add(ctx, entry("q2")))

	assert.Equal(t, 1, m.Len())
	recent := m.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, "q2", recent[0].Query)
}

func TestMemory_RecentClampsToLength(t *testing.T) {
	m := New(10, nil, logger.NewNoOpLogger())
	require.NoError(t, m.Add(context.Background(), entry("seule")))

	recent := m.Recent(50)
	require.Len(t, recent, 1)
	assert.Equal(t, "seule", recent[0].Query)
}

// ==========================
// Redis Persistence
// ==========================

func TestMemory_PersistsAndRehydrates(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	first := New(3, client, logger.NewNoOpLogger())
	require.NoError(t, first.Add(ctx, entry("q1")))
	require.NoError(t, first.Add(ctx, entry("q2")))

	// A fresh instance sharing the same Redis picks up the history.
	second := New(3, client, logger.NewNoOpLogger())
	assert.Equal(t, 2, second.Len())
	recent := second.Recent(2)
	assert.Equal(t, "q2", recent[0].Query)
	assert.Equal(t, "q1", recent[1].Query)
}

func TestMemory_RedisListTrimmedToCapacity(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	m := New(2, client, logger.NewNoOpLogger())
	for i := 0; i < 4; i++ {
		require.NoError(t, m.Add(ctx, entry(fmt.Sprintf("q%d", i))))
	}

	persisted, err := client.LRange(ctx, "assistant:conversation", 0, 10)
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestMemory_PersistenceFailureDoesNotLoseEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	m := New(3, client, logger.NewNoOpLogger())

	mr.Close()
	err := m.Add(context.Background(), entry("hors ligne"))

	assert.Error(t, err)
	assert.Equal(t, 1, m.Len())
}

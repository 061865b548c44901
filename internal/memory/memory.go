// internal/memory/memory.go

// Package memory keeps the bounded conversation history. The in-process
// ring is authoritative; Redis persistence is best-effort so a restart
// can rehydrate recent context.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"carwash-assistant/internal/common/database"
	"carwash-assistant/internal/common/logger"
)

const redisKey = "assistant:conversation"

// Entry is one remembered exchange.
type Entry struct {
	Query      string    `json:"query"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

type Memory struct {
	mu      sync.Mutex
	entries []Entry
	size    int

	redis *database.RedisClient
	log   logger.Logger
}

// New builds a memory holding at most size entries; a size below one
// is raised to one. redis may be nil; when set, previously persisted
// entries are loaded immediately.
func New(size int, redis *database.RedisClient, log logger.Logger) *Memory {
	if size < 1 {
		size = 1
	}
	m := &Memory{
		entries: make([]Entry, 0, size),
		size:    size,
		redis:   redis,
		log:     log,
	}
	m.rehydrate()
	return m
}

// Add records an exchange, dropping the oldest entry once the ring is
// full. The returned error reports a persistence failure only; the
// in-process ring always accepts the entry.
func (m *Memory) Add(ctx context.Context, e Entry) error {
	m.mu.Lock()
	if len(m.entries) == m.size {
		m.entries = m.entries[1:]
	}
	m.entries = append(m.entries, e)
	m.mu.Unlock()

	if m.redis == nil {
		return nil
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := m.redis.LPush(ctx, redisKey, raw); err != nil {
		return err
	}
	return m.redis.LTrim(ctx, redisKey, 0, int64(m.size-1))
}

// Recent returns up to n entries, newest first.
func (m *Memory) Recent(n int) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.entries) {
		n = len(m.entries)
	}
	out := make([]Entry, 0, n)
	for i := len(m.entries) - 1; i >= len(m.entries)-n; i-- {
		out = append(out, m.entries[i])
	}
	return out
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// rehydrate loads persisted entries. Redis holds them newest first, so
// they are reversed back into chronological ring order. Failures are
// logged and ignored.
func (m *Memory) rehydrate() {
	if m.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := m.redis.LRange(ctx, redisKey, 0, int64(m.size-1))
	if err != nil {
		m.log.Warn("could not rehydrate conversation memory", map[string]interface{}{"error": err.Error()})
		return
	}
	for i := len(raw) - 1; i >= 0; i-- {
		var e Entry
		if err := json.Unmarshal([]byte(raw[i]), &e); err != nil {
			continue
		}
		m.entries = append(m.entries, e)
	}
}

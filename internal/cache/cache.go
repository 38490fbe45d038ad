// Package cache holds the session-scoped response cache.
//
// A Store lives exactly as long as one browsing session: it is created when the
// client starts, handed to the coordinators, and dropped on exit. Entries never
// expire and are never evicted. The cache is a latency optimisation only; every
// miss must be satisfiable from the remote API.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Store is a key-value store of JSON payloads.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// Memory is an in-process Store. Writes are last-write-wins.
type Memory struct {
	id      string
	mu      sync.RWMutex
	entries map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewSession creates an empty store tagged with a fresh session id.
func NewSession() *Memory {
	return &Memory{
		id:      uuid.NewString(),
		entries: make(map[string][]byte),
	}
}

// ID returns the session id.
func (m *Memory) ID() string {
	return m.id
}

// Get returns a copy of the stored payload.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Set stores a copy of value under key.
func (m *Memory) Set(key string, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	m.mu.Lock()
	m.entries[key] = v
	m.mu.Unlock()
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Clear drops every entry, ending the session's cached view.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.entries = make(map[string][]byte)
	m.mu.Unlock()
}

// --- Keys ---

// KeyCategories is the key of the full category list.
const KeyCategories = "categories-all"

// KeyAllTopics is the key of the unfiltered topic list.
const KeyAllTopics = "topics-all"

// TopicsByCategoryKey keys the topic list of one category.
func TopicsByCategoryKey(categoryID string) string {
	return "topics-by-category-" + categoryID
}

// TopicDetailKey keys one topic with its sections.
func TopicDetailKey(topicID string) string {
	return "topic-detail-" + topicID
}

// SectionsKey keys the section list of one topic.
func SectionsKey(topicID string) string {
	return "sections-" + topicID
}

// RelatedKey keys the related-topic list of one topic.
func RelatedKey(topicID string) string {
	return "related-" + topicID
}

// Fetch returns the cached value for key, or calls load and caches its result.
// Undecodable entries count as misses. Errors from load are not cached.
func Fetch[T any](ctx context.Context, store Store, key string, load func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	if store != nil {
		if data, ok := store.Get(key); ok {
			var cached T
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil
			}
		}
	}

	value, err := load(ctx)
	if err != nil {
		return zero, false, err
	}
	if store != nil {
		data, err := json.Marshal(value)
		if err != nil {
			return zero, false, fmt.Errorf("encode %s: %w", key, err)
		}
		store.Set(key, data)
	}
	return value, false, nil
}

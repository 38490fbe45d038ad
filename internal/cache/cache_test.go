package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestMemoryGetSet(t *testing.T) {
	m := NewSession()
	_, ok := m.Get("missing")
	assert.False(t, ok)

	m.Set("k", []byte(`{"a":1}`))
	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), v)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryCopiesValues(t *testing.T) {
	m := NewSession()
	in := []byte("abc")
	m.Set("k", in)
	in[0] = 'x'

	out, _ := m.Get("k")
	assert.Equal(t, []byte("abc"), out)
	out[0] = 'y'

	again, _ := m.Get("k")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryLastWriteWins(t *testing.T) {
	m := NewSession()
	m.Set("k", []byte("1"))
	m.Set("k", []byte("2"))
	v, _ := m.Get("k")
	assert.Equal(t, []byte("2"), v)
}

func TestMemoryClear(t *testing.T) {
	m := NewSession()
	m.Set("a", []byte("1"))
	m.Clear()
	assert.Equal(t, 0, m.Len())
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := NewSession()
	b := NewSession()
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "categories-all", KeyCategories)
	assert.Equal(t, "topics-by-category-7", TopicsByCategoryKey("7"))
	assert.Equal(t, "topic-detail-3", TopicDetailKey("3"))
	assert.Equal(t, "sections-3", SectionsKey("3"))
	assert.Equal(t, "related-3", RelatedKey("3"))
}

func TestFetchCachesAfterFirstLoad(t *testing.T) {
	m := NewSession()
	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		return []item{{ID: "1", Name: "Basics"}}, nil
	}

	first, hit, err := Fetch(context.Background(), m, "k", load)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := Fetch(context.Background(), m, "k", load)
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	m := NewSession()
	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("down")
		}
		return []item{{ID: "1"}}, nil
	}

	_, _, err := Fetch(context.Background(), m, "k", load)
	require.Error(t, err)
	assert.Equal(t, 0, m.Len())

	got, _, err := Fetch(context.Background(), m, "k", load)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, calls)
}

func TestFetchTreatsCorruptEntryAsMiss(t *testing.T) {
	m := NewSession()
	m.Set("k", []byte("not-json"))

	got, hit, err := Fetch(context.Background(), m, "k", func(context.Context) ([]item, error) {
		return []item{{ID: "fresh"}}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "fresh", got[0].ID)
}

func TestFetchNilStoreAlwaysLoads(t *testing.T) {
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}
	_, _, _ = Fetch(context.Background(), nil, "k", load)
	v, hit, err := Fetch(context.Background(), nil, "k", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, v)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewSession()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			m.Set("k", []byte("v"))
		}()
		go func() {
			defer wg.Done()
			m.Get("k")
		}()
	}
	wg.Wait()
	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), v)
}

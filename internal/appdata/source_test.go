package appdata

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/oophub/internal/api"
	"github.com/gravitrone/oophub/internal/cache"
)

func TestCachedSourceServesRepeatLoadsFromCache(t *testing.T) {
	src := newFakeSource()
	store := cache.NewSession()
	cached := NewCachedSource(src, store, nil)

	first, err := cached.GetTopicsByCategory(context.Background(), "c1")
	require.NoError(t, err)
	second, err := cached.GetTopicsByCategory(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, 1, src.count("category:c1"))
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, a, b)

	raw, ok := store.Get(cache.TopicsByCategoryKey("c1"))
	require.True(t, ok)
	assert.JSONEq(t, string(a), string(raw))
}

func TestCachedSourceKeysByResource(t *testing.T) {
	src := newFakeSource()
	store := cache.NewSession()
	cached := NewCachedSource(src, store, nil)
	ctx := context.Background()

	_, err := cached.GetCategories(ctx)
	require.NoError(t, err)
	_, err = cached.GetAllTopics(ctx)
	require.NoError(t, err)
	_, err = cached.GetTopic(ctx, "t1")
	require.NoError(t, err)
	_, err = cached.GetSections(ctx, "t1")
	require.NoError(t, err)
	_, err = cached.GetRelatedTopics(ctx, "t1")
	require.NoError(t, err)

	for _, key := range []string{
		cache.KeyCategories,
		cache.KeyAllTopics,
		cache.TopicDetailKey("t1"),
		cache.SectionsKey("t1"),
		cache.RelatedKey("t1"),
	} {
		_, ok := store.Get(key)
		assert.True(t, ok, key)
	}
}

func TestCachedSourceDoesNotCacheFailures(t *testing.T) {
	src := newFakeSource()
	store := cache.NewSession()
	cached := NewCachedSource(src, store, nil)

	_, err := cached.GetTopic(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestCoordinatorWithCacheReloadsCategoryOnce(t *testing.T) {
	src := newFakeSource()
	c := New(NewCachedSource(src, cache.NewSession(), nil))
	require.NoError(t, c.Init(context.Background()))

	c.SelectCategory(context.Background(), "c2")
	c.SelectCategory(context.Background(), "c1")
	c.SelectCategory(context.Background(), "c2")

	assert.Equal(t, 1, src.count("category:c1"))
	assert.Equal(t, 1, src.count("category:c2"))
	assert.Equal(t, 1, src.count("topic:t3"))
	assert.Equal(t, api.ID("t3"), topicID(c.State()))
}

package appdata

import (
	"context"
	"log/slog"

	"github.com/gravitrone/oophub/internal/api"
	"github.com/gravitrone/oophub/internal/cache"
)

// Source is the read side of the catalog API used by the coordinator.
// *api.Client satisfies it.
type Source interface {
	GetCategories(ctx context.Context) ([]api.Category, error)
	GetAllTopics(ctx context.Context) ([]api.Topic, error)
	GetTopicsByCategory(ctx context.Context, categoryID api.ID) ([]api.Topic, error)
	GetTopic(ctx context.Context, topicID api.ID) (*api.TopicDetail, error)
	GetSections(ctx context.Context, topicID api.ID) ([]api.Section, error)
	GetRelatedTopics(ctx context.Context, topicID api.ID) ([]api.Topic, error)
}

var _ Source = (*api.Client)(nil)

// CachedSource serves reads from a session store and falls back to the
// wrapped source on a miss.
type CachedSource struct {
	src    Source
	store  cache.Store
	logger *slog.Logger
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource wraps src with store. A nil logger discards cache traces.
func NewCachedSource(src Source, store cache.Store, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachedSource{src: src, store: store, logger: logger}
}

func (s *CachedSource) GetCategories(ctx context.Context) ([]api.Category, error) {
	return fetch(ctx, s, cache.KeyCategories, s.src.GetCategories)
}

func (s *CachedSource) GetAllTopics(ctx context.Context) ([]api.Topic, error) {
	return fetch(ctx, s, cache.KeyAllTopics, s.src.GetAllTopics)
}

func (s *CachedSource) GetTopicsByCategory(ctx context.Context, categoryID api.ID) ([]api.Topic, error) {
	return fetch(ctx, s, cache.TopicsByCategoryKey(categoryID.String()), func(ctx context.Context) ([]api.Topic, error) {
		return s.src.GetTopicsByCategory(ctx, categoryID)
	})
}

func (s *CachedSource) GetTopic(ctx context.Context, topicID api.ID) (*api.TopicDetail, error) {
	return fetch(ctx, s, cache.TopicDetailKey(topicID.String()), func(ctx context.Context) (*api.TopicDetail, error) {
		return s.src.GetTopic(ctx, topicID)
	})
}

func (s *CachedSource) GetSections(ctx context.Context, topicID api.ID) ([]api.Section, error) {
	return fetch(ctx, s, cache.SectionsKey(topicID.String()), func(ctx context.Context) ([]api.Section, error) {
		return s.src.GetSections(ctx, topicID)
	})
}

func (s *CachedSource) GetRelatedTopics(ctx context.Context, topicID api.ID) ([]api.Topic, error) {
	return fetch(ctx, s, cache.RelatedKey(topicID.String()), func(ctx context.Context) ([]api.Topic, error) {
		return s.src.GetRelatedTopics(ctx, topicID)
	})
}

func fetch[T any](ctx context.Context, s *CachedSource, key string, load func(context.Context) (T, error)) (T, error) {
	value, hit, err := cache.Fetch(ctx, s.store, key, load)
	if err != nil {
		return value, err
	}
	s.logger.Debug("catalog read", "key", key, "cache_hit", hit)
	return value, nil
}

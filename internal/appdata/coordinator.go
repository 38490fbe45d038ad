// Package appdata owns the category, topic and section selection state.
//
// Selection handlers run their sequencing explicitly: clearing state, loading
// the topic list and loading a topic's detail happen in the order the caller
// asked for. Every load records the selection generation it started under and
// is dropped if a newer selection has been made by the time it completes, so
// the visible state always reflects the latest user action.
package appdata

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gravitrone/oophub/internal/api"
)

// State is an immutable snapshot of the coordinator.
type State struct {
	// Version increases with every change; receivers drop older snapshots.
	Version uint64

	Categories       []api.Category
	SelectedCategory api.ID
	Topics           []api.Topic
	FilteredTopics   []api.Topic
	AvailableTags    []api.Tag
	SelectedTags     []api.ID
	SelectedTopic    *api.TopicDetail
	Sections         []api.Section
	RelatedTopics    []api.Topic

	Loading        bool
	TopicsLoading  bool
	RelatedLoading bool

	// Err is set only when categories fail to load.
	Err error
}

// Category returns the selected category, if loaded.
func (s State) Category() (api.Category, bool) {
	for _, c := range s.Categories {
		if c.ID == s.SelectedCategory {
			return c, true
		}
	}
	return api.Category{}, false
}

// TagSelected reports whether id is part of the active filter.
func (s State) TagSelected(id api.ID) bool {
	return slices.Contains(s.SelectedTags, id)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for load failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNotify registers fn to receive a snapshot after every state change.
// fn runs outside the coordinator lock and may be called from any goroutine.
func WithNotify(fn func(State)) Option {
	return func(c *Coordinator) {
		c.notifyFn = fn
	}
}

// Coordinator mediates between the UI and the catalog source.
type Coordinator struct {
	src      Source
	logger   *slog.Logger
	notifyFn func(State)
	loads    singleflight.Group

	mu             sync.Mutex
	version        uint64
	categories     []api.Category
	selectedCat    api.ID
	topics         []api.Topic
	selectedTags   []api.ID
	selectedTopic  *api.TopicDetail
	sections       []api.Section
	related        []api.Topic
	loading        bool
	topicsLoading  bool
	relatedLoading bool
	err            error

	// categoryGen advances on every category switch, topicGen on every
	// change of the selected topic.
	categoryGen uint64
	topicGen    uint64
}

// New creates a coordinator reading from src.
func New(src Source, opts ...Option) *Coordinator {
	c := &Coordinator{
		src:    src,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current snapshot.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() State {
	return State{
		Version:          c.version,
		Categories:       slices.Clone(c.categories),
		SelectedCategory: c.selectedCat,
		Topics:           slices.Clone(c.topics),
		FilteredTopics:   slices.Clone(FilterByTags(c.topics, c.selectedTags)),
		AvailableTags:    DeriveTags(c.topics),
		SelectedTags:     slices.Clone(c.selectedTags),
		SelectedTopic:    c.selectedTopic,
		Sections:         slices.Clone(c.sections),
		RelatedTopics:    slices.Clone(c.related),
		Loading:          c.loading,
		TopicsLoading:    c.topicsLoading,
		RelatedLoading:   c.relatedLoading,
		Err:              c.err,
	}
}

// update runs fn under the lock. When fn reports a change, the new snapshot
// is published after the lock is released.
func (c *Coordinator) update(fn func() bool) bool {
	c.mu.Lock()
	if !fn() {
		c.mu.Unlock()
		return false
	}
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if c.notifyFn != nil {
		c.notifyFn(snap)
	}
	return true
}

// clearTopicLocked drops the selected topic and everything derived from it.
func (c *Coordinator) clearTopicLocked() {
	c.topicGen++
	c.selectedTopic = nil
	c.sections = nil
	c.related = nil
	c.relatedLoading = false
}

// Init loads the categories and selects the first one. The returned error is
// also kept in State.Err.
func (c *Coordinator) Init(ctx context.Context) error {
	c.update(func() bool {
		c.loading = true
		c.err = nil
		return true
	})

	categories, err := c.src.GetCategories(ctx)

	c.update(func() bool {
		c.loading = false
		switch {
		case err == nil:
			c.categories = categories
		case !api.IsCancelled(err):
			c.logger.Error("load categories", "err", err)
			c.categories = nil
			c.err = err
		}
		return true
	})
	if err != nil {
		return err
	}

	if len(categories) > 0 {
		c.SelectCategory(ctx, categories[0].ID)
	}
	return nil
}

// SelectCategory switches the active category. Tags, the selected topic and
// its sections are cleared before the topic list loads.
func (c *Coordinator) SelectCategory(ctx context.Context, categoryID api.ID) {
	c.update(func() bool {
		c.selectedCat = categoryID
		c.selectedTags = nil
		c.categoryGen++
		c.clearTopicLocked()
		return true
	})

	c.LoadTopics(ctx, categoryID, true)
}

// LoadTopics loads the topic list of categoryID. Concurrent loads of the same
// category share one request. With autoSelectFirst the first topic's detail
// is loaded, unless another topic was selected or the selection was cleared
// while the list was loading; otherwise the selection is left alone.
func (c *Coordinator) LoadTopics(ctx context.Context, categoryID api.ID, autoSelectFirst bool) {
	var gen, topicGen uint64
	c.update(func() bool {
		gen = c.categoryGen
		topicGen = c.topicGen
		c.topicsLoading = true
		return true
	})

	v, err, _ := c.loads.Do("category:"+categoryID.String(), func() (any, error) {
		return c.src.GetTopicsByCategory(ctx, categoryID)
	})
	topics, _ := v.([]api.Topic)

	var (
		first    api.ID
		firstGen uint64
	)
	applied := c.update(func() bool {
		if gen != c.categoryGen {
			return false
		}
		c.topicsLoading = false
		if err != nil {
			if !api.IsCancelled(err) {
				c.logger.Error("load topics", "category", categoryID, "err", err)
				c.topics = nil
			}
			return true
		}
		c.topics = topics
		switch {
		case !autoSelectFirst:
		case len(topics) == 0:
			c.clearTopicLocked()
		case topicGen != c.topicGen:
			c.logger.Debug("keep newer topic selection", "category", categoryID)
		default:
			c.topicGen++
			first, firstGen = topics[0].ID, c.topicGen
		}
		return true
	})
	if !applied {
		c.logger.Debug("discard stale topic list", "category", categoryID)
		return
	}

	if first != "" {
		c.loadTopic(ctx, firstGen, first)
	}
}

// SelectTopic loads a topic's detail and then its related topics, without
// touching the selected category.
func (c *Coordinator) SelectTopic(ctx context.Context, topicID api.ID) {
	c.mu.Lock()
	c.topicGen++
	gen := c.topicGen
	c.mu.Unlock()

	c.loadTopic(ctx, gen, topicID)
}

// loadTopic applies topicID's detail if gen is still the current selection.
func (c *Coordinator) loadTopic(ctx context.Context, gen uint64, topicID api.ID) {
	v, err, _ := c.loads.Do("topic:"+topicID.String(), func() (any, error) {
		return c.src.GetTopic(ctx, topicID)
	})
	detail, _ := v.(*api.TopicDetail)

	loaded := false
	applied := c.update(func() bool {
		if gen != c.topicGen {
			return false
		}
		if err != nil {
			if !api.IsCancelled(err) {
				c.logger.Error("load topic", "topic", topicID, "err", err)
				c.selectedTopic = nil
				c.sections = nil
				c.related = nil
			}
			return true
		}
		c.selectedTopic = detail
		c.sections = api.SortSections(detail.Sections)
		c.related = nil
		c.relatedLoading = true
		loaded = true
		return true
	})
	if !applied {
		c.logger.Debug("discard stale topic detail", "topic", topicID)
		return
	}

	if loaded {
		c.loadRelated(ctx, gen, topicID)
	}
}

func (c *Coordinator) loadRelated(ctx context.Context, gen uint64, topicID api.ID) {
	related, err := c.src.GetRelatedTopics(ctx, topicID)

	c.update(func() bool {
		if gen != c.topicGen {
			return false
		}
		c.relatedLoading = false
		c.related = related
		if err != nil {
			if !api.IsCancelled(err) {
				c.logger.Warn("load related topics", "topic", topicID, "err", err)
			}
			c.related = nil
		}
		return true
	})
}

// SelectTopicFromSearch shows a topic picked from search results. When the
// topic lives in another category, the category is switched and its topic
// list loaded without auto-selection before the detail loads, so the first
// topic of the new category is never shown in between.
func (c *Coordinator) SelectTopicFromSearch(ctx context.Context, topicID, categoryID api.ID) {
	switching := c.update(func() bool {
		if categoryID == "" || categoryID == c.selectedCat {
			return false
		}
		c.selectedCat = categoryID
		c.selectedTags = nil
		c.categoryGen++
		return true
	})

	if switching {
		c.LoadTopics(ctx, categoryID, false)
	}
	c.SelectTopic(ctx, topicID)
}

// SetTags replaces the tag filter and clears the selected topic.
func (c *Coordinator) SetTags(tagIDs []api.ID) {
	c.update(func() bool {
		c.selectedTags = uniqueIDs(tagIDs)
		c.clearTopicLocked()
		return true
	})
}

// ToggleTag adds or removes one tag from the filter.
func (c *Coordinator) ToggleTag(tagID api.ID) {
	c.update(func() bool {
		if i := slices.Index(c.selectedTags, tagID); i >= 0 {
			c.selectedTags = slices.Delete(slices.Clone(c.selectedTags), i, i+1)
		} else {
			c.selectedTags = append(slices.Clone(c.selectedTags), tagID)
		}
		c.clearTopicLocked()
		return true
	})
}

// ClearTags removes the tag filter.
func (c *Coordinator) ClearTags() {
	c.SetTags(nil)
}

func uniqueIDs(ids []api.ID) []api.ID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]api.ID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

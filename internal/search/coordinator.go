// Package search owns the search surface: query text, debounced remote
// lookups, local fuzzy matching and keyboard selection over the results.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gravitrone/oophub/internal/api"
)

// DefaultDebounce is the quiet period before a remote search fires.
const DefaultDebounce = 600 * time.Millisecond

// Mode selects where results come from.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Searcher runs remote searches. *api.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (*api.SearchResponse, error)
}

var _ Searcher = (*api.Client)(nil)

// State is a snapshot of the search surface.
type State struct {
	Version       uint64
	Query         string
	Results       []Result
	IsSearching   bool
	SelectedIndex int
	Open          bool
}

// Highlighted returns the highlighted result, if any.
func (s State) Highlighted() (Result, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Results) {
		return Result{}, false
	}
	return s.Results[s.SelectedIndex], true
}

// Grouped buckets the results for display.
func (s State) Grouped() []Group {
	return GroupResults(s.Results)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMode switches between remote and local search.
func WithMode(m Mode) Option {
	return func(c *Coordinator) {
		if m == ModeLocal || m == ModeRemote {
			c.mode = m
		}
	}
}

// WithDebounce overrides the remote debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithLimit caps the number of hits requested per remote search.
func WithLimit(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithLogger sets the logger for search failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNotify registers fn to receive every state change. fn runs outside the
// coordinator lock, possibly on a timer goroutine.
func WithNotify(fn func(State)) Option {
	return func(c *Coordinator) {
		c.notifyFn = fn
	}
}

// Coordinator drives one search surface.
type Coordinator struct {
	searcher Searcher
	mode     Mode
	debounce time.Duration
	limit    int
	logger   *slog.Logger
	notifyFn func(State)

	mu          sync.Mutex
	version     uint64
	query       string
	results     []Result
	isSearching bool
	selected    int
	open        bool
	dataset     Dataset

	// gen identifies the latest scheduled search; only it may write results.
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

// New creates a coordinator. searcher may be nil in local mode.
func New(searcher Searcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		searcher: searcher,
		mode:     ModeRemote,
		debounce: DefaultDebounce,
		limit:    api.DefaultSearchLimit,
		logger:   slog.New(slog.DiscardHandler),
		selected: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.searcher == nil {
		c.mode = ModeLocal
	}
	return c
}

// Mode reports the active search mode.
func (c *Coordinator) Mode() Mode {
	return c.mode
}

// State returns the current snapshot.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() State {
	results := make([]Result, len(c.results))
	copy(results, c.results)
	return State{
		Version:       c.version,
		Query:         c.query,
		Results:       results,
		IsSearching:   c.isSearching,
		SelectedIndex: c.selected,
		Open:          c.open,
	}
}

func (c *Coordinator) update(fn func() bool) {
	c.mu.Lock()
	if !fn() {
		c.mu.Unlock()
		return
	}
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if c.notifyFn != nil {
		c.notifyFn(snap)
	}
}

// setResultsLocked replaces the results; a new result set has no highlight.
func (c *Coordinator) setResultsLocked(results []Result) {
	c.results = results
	c.selected = -1
}

// stopLocked cancels the pending timer and any in-flight request.
func (c *Coordinator) stopLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// SetDataset replaces the collections scanned in local mode and refreshes
// the current results.
func (c *Coordinator) SetDataset(ds Dataset) {
	c.update(func() bool {
		c.dataset = ds
		if c.mode != ModeLocal || strings.TrimSpace(c.query) == "" {
			return false
		}
		c.setResultsLocked(Local(c.dataset, strings.TrimSpace(c.query)))
		return true
	})
}

// SetQuery updates the query. In remote mode the search fires after the
// debounce interval, superseding any earlier pending or in-flight search.
func (c *Coordinator) SetQuery(q string) {
	c.update(func() bool {
		c.query = q
		c.stopLocked()
		trimmed := strings.TrimSpace(q)
		switch {
		case trimmed == "":
			c.isSearching = false
			c.setResultsLocked(nil)
		case c.mode == ModeLocal:
			c.isSearching = false
			c.setResultsLocked(Local(c.dataset, trimmed))
		default:
			c.isSearching = true
			c.scheduleLocked(c.debounce)
		}
		return true
	})
}

// ForceSearch re-runs the current query immediately.
func (c *Coordinator) ForceSearch() {
	c.update(func() bool {
		trimmed := strings.TrimSpace(c.query)
		if trimmed == "" {
			return false
		}
		c.stopLocked()
		if c.mode == ModeLocal {
			c.setResultsLocked(Local(c.dataset, trimmed))
			return true
		}
		c.isSearching = true
		c.scheduleLocked(0)
		return true
	})
}

func (c *Coordinator) scheduleLocked(delay time.Duration) {
	gen := c.gen
	query := c.query
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.timer = time.AfterFunc(delay, func() {
		c.run(ctx, gen, query)
	})
}

func (c *Coordinator) run(ctx context.Context, gen uint64, query string) {
	if ctx.Err() != nil {
		return
	}
	resp, err := c.searcher.Search(ctx, query, c.limit)

	c.update(func() bool {
		if gen != c.gen {
			return false
		}
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		c.timer = nil
		c.isSearching = false
		if err != nil {
			if api.IsCancelled(err) {
				return true
			}
			c.logger.Warn("search failed", "query", query, "err", err)
			c.setResultsLocked(nil)
			return true
		}
		c.setResultsLocked(Flatten(resp))
		c.logger.Debug("search results", "query", query, "count", len(c.results))
		return true
	})
}

// Navigate moves the highlight by direction, wrapping at both ends.
// It does nothing when there are no results.
func (c *Coordinator) Navigate(direction int) {
	c.update(func() bool {
		n := len(c.results)
		if n == 0 || direction == 0 {
			return false
		}
		next := c.selected + direction
		if next < 0 {
			next = n - 1
		}
		if next >= n {
			next = 0
		}
		c.selected = next
		return true
	})
}

// Select closes the surface and returns where r leads.
func (c *Coordinator) Select(r Result) Selection {
	var sel Selection
	c.update(func() bool {
		sel = resolve(c.results, r)
		c.resetLocked(false)
		return true
	})
	return sel
}

// SelectHighlighted selects the highlighted result. It reports false when
// nothing is highlighted.
func (c *Coordinator) SelectHighlighted() (Selection, bool) {
	c.mu.Lock()
	r, ok := c.snapshotLocked().Highlighted()
	c.mu.Unlock()
	if !ok {
		return Selection{}, false
	}
	return c.Select(r), true
}

// Open shows an empty search surface.
func (c *Coordinator) Open() {
	c.update(func() bool {
		c.resetLocked(true)
		return true
	})
}

// Close hides the surface and cancels any pending search.
func (c *Coordinator) Close() {
	c.update(func() bool {
		c.resetLocked(false)
		return true
	})
}

func (c *Coordinator) resetLocked(open bool) {
	c.stopLocked()
	c.open = open
	c.query = ""
	c.isSearching = false
	c.setResultsLocked(nil)
}

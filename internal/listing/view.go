package listing

import (
	"context"
	"errors"
	"sync"
	"time"

	"jobportal-web/internal/logging"
	"jobportal-web/internal/metrics"
)

// Status is the load state of a View
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// Query is the key a page is fetched with
type Query struct {
	Search string
	Page   int
}

// Page is one fetched page plus the total number of matching items
type Page[T any] struct {
	Items []T
	Total int
}

// FetchFunc loads one page. It must honour ctx cancellation.
type FetchFunc[T any] func(ctx context.Context, q Query, pageSize int) (Page[T], error)

// Snapshot is a copy of a View's state
type Snapshot[T any] struct {
	Status          Status
	SearchTerm      string
	DebouncedSearch string
	Page            int
	PageSize        int
	Items           []T
	Total           int
	TotalPages      int
	Err             error
}

// HasPrev reports whether a previous page exists
func (s Snapshot[T]) HasPrev() bool { return s.Page > 1 }

// HasNext reports whether a next page exists
func (s Snapshot[T]) HasNext() bool { return s.Page < s.TotalPages }

// Loading reports whether a fetch is in flight
func (s Snapshot[T]) Loading() bool { return s.Status == StatusLoading }

// Empty reports a completed fetch with no items
func (s Snapshot[T]) Empty() bool { return s.Status == StatusLoaded && len(s.Items) == 0 }

// Options configures a View
type Options struct {
	Name     string        // label for logs and metrics
	PageSize int           // default 10
	Debounce time.Duration // default 500ms, negative disables
	Timeout  time.Duration // per fetch, default 20s
	Logger   logging.Logger
	Metrics  *metrics.Collector
	OnChange func() // called after every applied fetch result, outside the lock
}

// ErrClosed is returned by Wait on a closed view
var ErrClosed = errors.New("list view closed")

// View is a searchable, paginated list backed by a FetchFunc.
//
// Search input is debounced; a changed search resets to page 1. Each fetch
// gets a sequence number and only the latest one is applied, so a slow stale
// response never overwrites a newer one.
type View[T any] struct {
	fetch  FetchFunc[T]
	opts   Options
	logger logging.Logger

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu         sync.Mutex
	status     Status
	searchTerm string
	debounced  string
	page       int
	items      []T
	total      int
	err        error

	seq      uint64
	inflight context.CancelFunc
	settled  chan struct{}

	timer       *time.Timer
	debounceGen uint64

	closed bool
}

// NewView creates an idle view on page 1. Nothing is fetched until Start.
func NewView[T any](fetch FetchFunc[T], opts Options) *View[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Debounce == 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.Name == "" {
		opts.Name = "list"
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	settled := make(chan struct{})
	close(settled)

	return &View[T]{
		fetch:      fetch,
		opts:       opts,
		logger:     logger.WithField("view", opts.Name),
		baseCtx:    ctx,
		baseCancel: cancel,
		status:     StatusIdle,
		page:       1,
		settled:    settled,
	}
}

// Start performs the initial fetch. Later calls are no-ops.
func (v *View[T]) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || v.status != StatusIdle {
		return
	}
	v.startFetchLocked()
}

// SetSearch records the raw search input and restarts the debounce window.
// When the window elapses with a changed value the view resets to page 1 and fetches.
func (v *View[T]) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}

	v.searchTerm = term
	v.debounceGen++
	gen := v.debounceGen

	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}

	if v.opts.Debounce < 0 {
		v.applyDebouncedLocked()
		return
	}

	v.timer = time.AfterFunc(v.opts.Debounce, func() {
		v.mu.Lock()
		defer v.mu.Unlock()

		if v.closed || gen != v.debounceGen {
			return
		}
		v.timer = nil
		v.applyDebouncedLocked()
	})
}

// SubmitSearch applies term at once, skipping the debounce window, and
// returns to page 1.
func (v *View[T]) SubmitSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}

	v.debounceGen++
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}

	v.searchTerm = term
	if term == v.debounced && v.page == 1 && v.status != StatusIdle {
		return
	}
	v.debounced = term
	v.page = 1
	v.startFetchLocked()
}

func (v *View[T]) applyDebouncedLocked() {
	if v.searchTerm == v.debounced {
		return
	}
	v.debounced = v.searchTerm
	v.page = 1
	v.startFetchLocked()
}

// GoToPage moves to page p. Pages outside [1, totalPages] are rejected with
// no state change and no fetch. Moving to the current page is a no-op.
func (v *View[T]) GoToPage(p int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return false
	}
	if p < 1 || p > v.totalPagesLocked() {
		return false
	}
	if p == v.page {
		return true
	}

	v.page = p
	v.startFetchLocked()
	return true
}

// Refresh refetches the current search and page
func (v *View[T]) Refresh() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.startFetchLocked()
}

// Snapshot returns a copy of the current state
func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()

	items := make([]T, len(v.items))
	copy(items, v.items)

	return Snapshot[T]{
		Status:          v.status,
		SearchTerm:      v.searchTerm,
		DebouncedSearch: v.debounced,
		Page:            v.page,
		PageSize:        v.opts.PageSize,
		Items:           items,
		Total:           v.total,
		TotalPages:      v.totalPagesLocked(),
		Err:             v.err,
	}
}

// Wait blocks until no fetch is in flight or ctx is done
func (v *View[T]) Wait(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	ch := v.settled
	v.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels the in-flight fetch and any pending debounce. No state
// changes are applied afterwards.
func (v *View[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true

	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	if v.inflight != nil {
		v.inflight()
		v.inflight = nil
	}
	v.baseCancel()

	if v.status == StatusLoading {
		close(v.settled)
	}
}

func (v *View[T]) totalPagesLocked() int {
	return (v.total + v.opts.PageSize - 1) / v.opts.PageSize
}

func (v *View[T]) startFetchLocked() {
	if v.inflight != nil {
		v.inflight()
	}

	v.seq++
	seq := v.seq
	q := Query{Search: v.debounced, Page: v.page}

	ctx, cancel := context.WithTimeout(v.baseCtx, v.opts.Timeout)
	v.inflight = cancel

	if v.status != StatusLoading {
		v.settled = make(chan struct{})
	}
	v.status = StatusLoading

	go v.run(ctx, cancel, seq, q)
}

func (v *View[T]) run(ctx context.Context, cancel context.CancelFunc, seq uint64, q Query) {
	defer cancel()

	start := time.Now()
	page, err := v.fetch(ctx, q, v.opts.PageSize)
	duration := time.Since(start)

	v.mu.Lock()
	if v.closed || seq != v.seq {
		v.mu.Unlock()
		v.opts.Metrics.ObserveFetch(v.opts.Name, "cancelled", duration)
		v.opts.Metrics.StaleDiscarded(v.opts.Name)
		v.logger.Debug("Discarded stale list response", map[string]interface{}{
			"search": q.Search,
			"page":   q.Page,
		})
		return
	}

	v.inflight = nil
	if err != nil {
		v.status = StatusFailed
		v.err = err
	} else {
		v.status = StatusLoaded
		v.err = nil
		v.items = page.Items
		v.total = page.Total
	}
	close(v.settled)
	onChange := v.opts.OnChange
	v.mu.Unlock()

	if err != nil {
		v.opts.Metrics.ObserveFetch(v.opts.Name, "error", duration)
		v.logger.Warn("List fetch failed", map[string]interface{}{
			"search": q.Search,
			"page":   q.Page,
			"error":  err.Error(),
		})
	} else {
		v.opts.Metrics.ObserveFetch(v.opts.Name, "success", duration)
	}

	if onChange != nil {
		onChange()
	}
}

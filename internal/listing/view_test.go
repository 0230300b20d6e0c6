package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []Query
	total   int
	fail    error
	release map[Query]chan struct{}
}

func newFakeFetcher(total int) *fakeFetcher {
	return &fakeFetcher{total: total, release: make(map[Query]chan struct{})}
}

func (f *fakeFetcher) fetch(ctx context.Context, q Query, pageSize int) (Page[string], error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	release := f.release[q]
	fail := f.fail
	total := f.total
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	if fail != nil {
		return Page[string]{}, fail
	}
	return Page[string]{Items: []string{fmt.Sprintf("%s:%d", q.Search, q.Page)}, Total: total}, nil
}

func (f *fakeFetcher) Calls() []Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Query(nil), f.calls...)
}

// block holds the fetch of q until the returned channel is closed
func (f *fakeFetcher) block(q Query) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.release[q] = ch
	return ch
}

func (f *fakeFetcher) setFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func startedView(t *testing.T, f *fakeFetcher, debounce time.Duration) *View[string] {
	t.Helper()
	v := NewView[string](f.fetch, Options{Name: "test", PageSize: 10, Debounce: debounce, Timeout: time.Second})
	t.Cleanup(v.Close)

	v.Start()
	waitSettled(t, v)
	return v
}

func waitSettled(t *testing.T, v *View[string]) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, v.Wait(ctx))
}

func TestStartFetchesFirstPage(t *testing.T) {
	f := newFakeFetcher(23)
	v := startedView(t, f, 20*time.Millisecond)

	assert.Equal(t, []Query{{Search: "", Page: 1}}, f.Calls())

	snap := v.Snapshot()
	assert.Equal(t, StatusLoaded, snap.Status)
	assert.Equal(t, []string{":1"}, snap.Items)
	assert.Equal(t, 23, snap.Total)
	assert.Equal(t, 3, snap.TotalPages)
	assert.False(t, snap.HasPrev())
	assert.True(t, snap.HasNext())

	v.Start()
	assert.Len(t, f.Calls(), 1)
}

func TestDebouncedSearchFetchesOnce(t *testing.T) {
	f := newFakeFetcher(5)
	v := startedView(t, f, 40*time.Millisecond)

	for _, term := range []string{"g", "go", "go d", "go dev"} {
		v.SetSearch(term)
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, "go dev", v.Snapshot().SearchTerm)
	assert.Equal(t, "", v.Snapshot().DebouncedSearch)

	require.Eventually(t, func() bool { return len(f.Calls()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return len(f.Calls()) > 2 }, 100*time.Millisecond, 10*time.Millisecond)

	assert.Equal(t, Query{Search: "go dev", Page: 1}, f.Calls()[1])
	waitSettled(t, v)
	assert.Equal(t, "go dev", v.Snapshot().DebouncedSearch)
}

func TestSearchChangeResetsPage(t *testing.T) {
	f := newFakeFetcher(35)
	v := startedView(t, f, 10*time.Millisecond)

	require.True(t, v.GoToPage(3))
	waitSettled(t, v)
	assert.Equal(t, 3, v.Snapshot().Page)

	v.SetSearch("x")
	require.Eventually(t, func() bool { return len(f.Calls()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, Query{Search: "x", Page: 1}, f.Calls()[2])
	assert.Equal(t, 1, v.Snapshot().Page)
}

func TestUnchangedDebouncedValueDoesNotFetch(t *testing.T) {
	f := newFakeFetcher(35)
	v := startedView(t, f, 20*time.Millisecond)

	v.SetSearch("a")
	v.SetSearch("")
	assert.Never(t, func() bool { return len(f.Calls()) > 1 }, 80*time.Millisecond, 10*time.Millisecond)
}

func TestSubmitSearchSkipsDebounce(t *testing.T) {
	f := newFakeFetcher(35)
	v := startedView(t, f, time.Hour)

	v.SetSearch("rust")
	v.SubmitSearch("rust")
	waitSettled(t, v)

	assert.Equal(t, []Query{{"", 1}, {"rust", 1}}, f.Calls())
	assert.Equal(t, "rust", v.Snapshot().DebouncedSearch)
}

func TestGoToPageBounds(t *testing.T) {
	f := newFakeFetcher(23)
	v := startedView(t, f, time.Hour)

	for _, p := range []int{0, -1, 4} {
		assert.False(t, v.GoToPage(p), "page %d", p)
	}
	assert.Len(t, f.Calls(), 1)
	assert.Equal(t, 1, v.Snapshot().Page)

	assert.True(t, v.GoToPage(1))
	assert.Len(t, f.Calls(), 1)

	assert.True(t, v.GoToPage(3))
	waitSettled(t, v)
	assert.Equal(t, Query{Search: "", Page: 3}, f.Calls()[1])
	assert.Equal(t, []string{":3"}, v.Snapshot().Items)
}

func TestEmptyResultRejectsEveryPage(t *testing.T) {
	f := newFakeFetcher(0)
	v := startedView(t, f, time.Hour)

	snap := v.Snapshot()
	assert.Equal(t, 0, snap.TotalPages)
	assert.False(t, v.GoToPage(1))
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	f := newFakeFetcher(50)
	v := startedView(t, f, time.Hour)

	slow := f.block(Query{Page: 2})
	require.True(t, v.GoToPage(2))
	require.Eventually(t, func() bool { return len(f.Calls()) == 2 }, time.Second, 5*time.Millisecond)

	require.True(t, v.GoToPage(3))
	waitSettled(t, v)
	assert.Equal(t, []string{":3"}, v.Snapshot().Items)

	close(slow)
	assert.Never(t, func() bool {
		return v.Snapshot().Items[0] != ":3"
	}, 60*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, 3, v.Snapshot().Page)
}

func TestStaleSearchResponseIsDiscarded(t *testing.T) {
	f := newFakeFetcher(50)
	v := startedView(t, f, time.Hour)

	slow := f.block(Query{Search: "x", Page: 1})
	v.SubmitSearch("x")
	require.Eventually(t, func() bool { return len(f.Calls()) == 2 }, time.Second, 5*time.Millisecond)

	v.SubmitSearch("y")
	waitSettled(t, v)
	assert.Equal(t, []string{"y:1"}, v.Snapshot().Items)

	close(slow)
	assert.Never(t, func() bool {
		return v.Snapshot().Items[0] != "y:1"
	}, 60*time.Millisecond, 5*time.Millisecond)

	snap := v.Snapshot()
	assert.Equal(t, "y", snap.DebouncedSearch)
	assert.Equal(t, StatusLoaded, snap.Status)
	assert.Equal(t, []Query{{"", 1}, {"x", 1}, {"y", 1}}, f.Calls())
}

func TestSupersededFetchIsCancelled(t *testing.T) {
	cancelled := make(chan struct{})
	var once sync.Once
	fetch := func(ctx context.Context, q Query, pageSize int) (Page[string], error) {
		if q.Page == 2 {
			<-ctx.Done()
			once.Do(func() { close(cancelled) })
			return Page[string]{}, ctx.Err()
		}
		return Page[string]{Items: []string{"ok"}, Total: 30}, nil
	}

	v := NewView[string](fetch, Options{Debounce: time.Hour, Timeout: time.Second})
	defer v.Close()
	v.Start()
	waitSettled(t, v)

	require.True(t, v.GoToPage(2))
	require.True(t, v.GoToPage(3))

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}
	waitSettled(t, v)
	assert.Equal(t, StatusLoaded, v.Snapshot().Status)
	assert.NoError(t, v.Snapshot().Err)
}

func TestFailureKeepsPreviousData(t *testing.T) {
	f := newFakeFetcher(30)
	v := startedView(t, f, time.Hour)

	f.setFail(errors.New("upstream down"))
	v.Refresh()
	waitSettled(t, v)

	snap := v.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.EqualError(t, snap.Err, "upstream down")
	assert.Equal(t, []string{":1"}, snap.Items)
	assert.Equal(t, 30, snap.Total)

	f.setFail(nil)
	v.Refresh()
	waitSettled(t, v)
	assert.Equal(t, StatusLoaded, v.Snapshot().Status)
	assert.NoError(t, v.Snapshot().Err)
}

func TestFetchTimeoutEndsLoading(t *testing.T) {
	fetch := func(ctx context.Context, q Query, pageSize int) (Page[string], error) {
		<-ctx.Done()
		return Page[string]{}, ctx.Err()
	}

	v := NewView[string](fetch, Options{Timeout: 20 * time.Millisecond})
	defer v.Close()
	v.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, v.Wait(ctx))

	snap := v.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.ErrorIs(t, snap.Err, context.DeadlineExceeded)
}

func TestCloseStopsUpdates(t *testing.T) {
	f := newFakeFetcher(30)
	v := startedView(t, f, 10*time.Millisecond)

	slow := f.block(Query{Page: 2})
	require.True(t, v.GoToPage(2))
	v.Close()
	close(slow)

	assert.Never(t, func() bool { return v.Snapshot().Status != StatusLoading }, 50*time.Millisecond, 5*time.Millisecond)
	assert.Equal(t, []string{":1"}, v.Snapshot().Items)
	assert.ErrorIs(t, v.Wait(context.Background()), ErrClosed)

	v.SetSearch("late")
	v.Refresh()
	assert.False(t, v.GoToPage(1))
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, f.Calls(), 2)
}

func TestOnChangeRunsAfterApply(t *testing.T) {
	f := newFakeFetcher(5)
	changed := make(chan Snapshot[string], 1)

	var v *View[string]
	v = NewView[string](f.fetch, Options{Debounce: time.Hour, OnChange: func() {
		changed <- v.Snapshot()
	}})
	defer v.Close()
	v.Start()

	select {
	case snap := <-changed:
		assert.Equal(t, StatusLoaded, snap.Status)
	case <-time.After(time.Second):
		t.Fatal("OnChange not called")
	}
}

func TestLocalFetch(t *testing.T) {
	users := []string{"ann@acme.io", "bob@beta.io", "ANNA@gamma.io", "carl@acme.io"}
	fetch := LocalFetch[string](
		func(context.Context) ([]string, error) { return users, nil },
		func(u, term string) bool { return ContainsFold(term, u) },
	)

	page, err := fetch(context.Background(), Query{Search: " Ann ", Page: 1}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"ann@acme.io", "ANNA@gamma.io"}, page.Items)
	assert.Equal(t, 2, page.Total)

	page, err = fetch(context.Background(), Query{Page: 2}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"carl@acme.io"}, page.Items)
	assert.Equal(t, 4, page.Total)

	page, err = fetch(context.Background(), Query{Page: 9}, 3)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	failing := LocalFetch[string](
		func(context.Context) ([]string, error) { return nil, errors.New("nope") },
		func(string, string) bool { return true },
	)
	_, err = failing(context.Background(), Query{Page: 1}, 10)
	assert.EqualError(t, err, "nope")
}

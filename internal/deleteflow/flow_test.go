package deleteflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal-web/internal/logging"
)

func TestSelectAndCancel(t *testing.T) {
	calls := 0
	f := New(func(context.Context, string, int64) error { calls++; return nil }, nil, logging.NewNopLogger())

	assert.Equal(t, NoTarget, f.State())
	require.NoError(t, f.Select(7))
	assert.Equal(t, TargetSelected, f.State())

	id, ok := f.Target()
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)

	require.NoError(t, f.Cancel())
	assert.Equal(t, NoTarget, f.State())
	_, ok = f.Target()
	assert.False(t, ok)
	assert.Zero(t, calls)
}

func TestConfirmDeletesAndRefreshes(t *testing.T) {
	var deleted []int64
	var refreshed []int64
	f := New(
		func(ctx context.Context, token string, id int64) error {
			assert.Equal(t, "tok", token)
			deleted = append(deleted, id)
			return nil
		},
		func(id int64) { refreshed = append(refreshed, id) },
		logging.NewNopLogger(),
	)

	require.NoError(t, f.Select(7))
	require.NoError(t, f.Confirm(context.Background(), "tok"))

	assert.Equal(t, []int64{7}, deleted)
	assert.Equal(t, []int64{7}, refreshed)
	assert.Equal(t, NoTarget, f.State())
}

func TestConfirmWithoutTarget(t *testing.T) {
	f := New(func(context.Context, string, int64) error { return nil }, nil, nil)
	assert.ErrorIs(t, f.Confirm(context.Background(), "tok"), ErrNoTarget)
}

func TestFailedDeleteClearsTarget(t *testing.T) {
	refreshed := false
	f := New(
		func(context.Context, string, int64) error { return errors.New("forbidden") },
		func(int64) { refreshed = true },
		logging.NewNopLogger(),
	)

	require.NoError(t, f.Select(3))
	err := f.Confirm(context.Background(), "tok")
	assert.EqualError(t, err, "failed to delete 3: forbidden")
	assert.Equal(t, NoTarget, f.State())
	assert.False(t, refreshed)
}

func TestControlsDisabledWhileDeleting(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := New(func(context.Context, string, int64) error {
		close(started)
		<-release
		return nil
	}, nil, logging.NewNopLogger())

	require.NoError(t, f.Select(9))
	done := make(chan error, 1)
	go func() { done <- f.Confirm(context.Background(), "tok") }()

	<-started
	assert.Equal(t, Deleting, f.State())
	assert.False(t, f.ControlsEnabled())
	assert.ErrorIs(t, f.Confirm(context.Background(), "tok"), ErrBusy)
	assert.ErrorIs(t, f.Select(1), ErrBusy)
	assert.ErrorIs(t, f.Cancel(), ErrBusy)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("confirm did not finish")
	}
	assert.True(t, f.ControlsEnabled())
	assert.Equal(t, NoTarget, f.State())
}

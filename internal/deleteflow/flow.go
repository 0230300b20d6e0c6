package deleteflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"jobportal-web/internal/logging"
)

// State is the stage of a delete confirmation
type State string

const (
	NoTarget       State = "no_target"
	TargetSelected State = "target_selected"
	Deleting       State = "deleting"
)

var (
	// ErrBusy is returned while a delete is in flight
	ErrBusy = errors.New("delete in progress")
	// ErrNoTarget is returned by Confirm when nothing is selected
	ErrNoTarget = errors.New("no delete target selected")
)

// DeleteFunc removes the item with the given id
type DeleteFunc func(ctx context.Context, token string, id int64) error

// Flow is a two-step delete: select a target, then confirm or cancel.
type Flow struct {
	del       DeleteFunc
	onDeleted func(id int64)
	logger    logging.Logger

	mu     sync.Mutex
	state  State
	target int64
}

// New creates a flow with no target. onDeleted may be nil.
func New(del DeleteFunc, onDeleted func(id int64), logger logging.Logger) *Flow {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Flow{
		del:       del,
		onDeleted: onDeleted,
		logger:    logger,
		state:     NoTarget,
	}
}

// Select records id as the pending target. No network call is made.
func (f *Flow) Select(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == Deleting {
		return ErrBusy
	}
	f.state = TargetSelected
	f.target = id
	return nil
}

// Cancel clears the pending target
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == Deleting {
		return ErrBusy
	}
	f.state = NoTarget
	f.target = 0
	return nil
}

// Confirm deletes the selected target. Whatever the outcome the flow ends
// with no target; a failure is returned and not retried.
func (f *Flow) Confirm(ctx context.Context, token string) error {
	f.mu.Lock()
	switch f.state {
	case Deleting:
		f.mu.Unlock()
		return ErrBusy
	case NoTarget:
		f.mu.Unlock()
		return ErrNoTarget
	}
	id := f.target
	f.state = Deleting
	f.mu.Unlock()

	err := f.del(ctx, token, id)

	f.mu.Lock()
	f.state = NoTarget
	f.target = 0
	f.mu.Unlock()

	if err != nil {
		f.logger.Warn("Delete failed", map[string]interface{}{
			"target_id": id,
			"error":     err.Error(),
		})
		return fmt.Errorf("failed to delete %d: %w", id, err)
	}

	f.logger.Info("Deleted", map[string]interface{}{"target_id": id})
	if f.onDeleted != nil {
		f.onDeleted(id)
	}
	return nil
}

// State returns the current stage
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Target returns the selected id and whether one is selected or being deleted
func (f *Flow) Target() (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.target, f.state != NoTarget
}

// ControlsEnabled is false while a delete is in flight
func (f *Flow) ControlsEnabled() bool {
	return f.State() != Deleting
}

// Close satisfies the view registry's closer contract; a flow holds no resources.
func (f *Flow) Close() {}

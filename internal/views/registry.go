package views

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobportal-web/internal/logging"
	"jobportal-web/internal/metrics"
)

// Closer is anything the registry can hold: list views and delete flows
type Closer interface {
	Close()
}

type key struct {
	session string
	name    string
}

type entry struct {
	value    Closer
	lastSeen time.Time
}

// Registry holds per-session view state between requests. Entries unused
// for longer than the idle timeout are closed by a background sweep.
type Registry struct {
	idleTimeout   time.Duration
	sweepInterval time.Duration
	logger        logging.Logger
	metrics       *metrics.Collector
	now           func() time.Time

	mu      sync.Mutex
	entries map[key]*entry

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRegistry creates an empty registry
func NewRegistry(idleTimeout, sweepInterval time.Duration, logger logging.Logger, m *metrics.Collector) *Registry {
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Registry{
		idleTimeout:   idleTimeout,
		sweepInterval: sweepInterval,
		logger:        logger,
		metrics:       m,
		now:           time.Now,
		entries:       make(map[key]*entry),
	}
}

// Get returns the session's entry called name, creating it with create on
// first use. Every Get refreshes the entry's idle clock.
func Get[T Closer](r *Registry, sessionID, name string, create func() T) T {
	k := key{session: sessionID, name: name}

	r.mu.Lock()
	if e, ok := r.entries[k]; ok {
		if v, ok := e.value.(T); ok {
			e.lastSeen = r.now()
			r.mu.Unlock()
			return v
		}
		// same name registered with another type; replace it
		e.value.Close()
		delete(r.entries, k)
	}

	v := create()
	r.entries[k] = &entry{value: v, lastSeen: r.now()}
	size := len(r.entries)
	r.mu.Unlock()

	r.metrics.SetActiveViews(size)
	return v
}

// Lookup returns an existing entry without creating one
func Lookup[T Closer](r *Registry, sessionID, name string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	e, ok := r.entries[key{session: sessionID, name: name}]
	if !ok {
		return zero, false
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, false
	}
	e.lastSeen = r.now()
	return v, true
}

// DropSession closes and removes every entry of the session
func (r *Registry) DropSession(sessionID string) int {
	r.mu.Lock()
	var closing []Closer
	for k, e := range r.entries {
		if k.session == sessionID {
			closing = append(closing, e.value)
			delete(r.entries, k)
		}
	}
	size := len(r.entries)
	r.mu.Unlock()

	for _, c := range closing {
		c.Close()
	}
	r.metrics.SetActiveViews(size)
	return len(closing)
}

// Sweep closes entries idle for longer than the idle timeout
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTimeout)

	r.mu.Lock()
	var closing []Closer
	for k, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			closing = append(closing, e.value)
			delete(r.entries, k)
		}
	}
	size := len(r.entries)
	r.mu.Unlock()

	for _, c := range closing {
		c.Close()
	}
	r.metrics.SetActiveViews(size)
	return len(closing)
}

// Len returns the number of held entries
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Start runs the idle sweep until Stop
func (r *Registry) Start(ctx context.Context) error {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	if r.running {
		return fmt.Errorf("view registry already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	r.wg.Add(1)
	go r.sweepRoutine(ctx)

	r.logger.Info("View registry started", map[string]interface{}{
		"idle_timeout":   r.idleTimeout.String(),
		"sweep_interval": r.sweepInterval.String(),
	})
	return nil
}

// Stop ends the sweep and closes every entry
func (r *Registry) Stop(ctx context.Context) error {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	if r.running {
		r.cancel()

		done := make(chan struct{})
		go func() {
			r.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			r.logger.Warn("View registry shutdown timed out")
		}
		r.running = false
	}

	r.mu.Lock()
	closing := make([]Closer, 0, len(r.entries))
	for k, e := range r.entries {
		closing = append(closing, e.value)
		delete(r.entries, k)
	}
	r.mu.Unlock()

	for _, c := range closing {
		c.Close()
	}
	r.metrics.SetActiveViews(0)

	r.logger.Info("View registry stopped", map[string]interface{}{
		"closed": len(closing),
	})
	return nil
}

func (r *Registry) sweepRoutine(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("Evicted idle views", map[string]interface{}{
					"evicted": n,
				})
			}
		}
	}
}

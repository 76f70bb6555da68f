package loop

import (
	"context"
	"sync"
	"time"
)

// Registry tracks the games running on a host so they can be stopped together.
type Registry struct {
	mu       sync.Mutex
	sessions map[int]context.CancelFunc
	nextID   int
	closed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int]context.CancelFunc), nextID: 1}
}

// Add registers a session and returns the context it should run under plus a
// done func to call when it ends. After Shutdown the returned context is
// already cancelled.
func (r *Registry) Add(parent context.Context) (ctx context.Context, done func()) {
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.sessions[id] = cancel
	if r.closed {
		cancel()
	}
	r.mu.Unlock()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.sessions, id)
			r.mu.Unlock()
			cancel()
		})
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Shutdown cancels every session and waits for them to end, up to timeout.
// It reports whether all sessions ended in time.
func (r *Registry) Shutdown(timeout time.Duration) bool {
	r.mu.Lock()
	r.closed = true
	for _, cancel := range r.sessions {
		cancel()
	}
	r.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(registryPollInterval)
	defer ticker.Stop()

	for {
		if r.Len() == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-ticker.C:
		}
	}
}

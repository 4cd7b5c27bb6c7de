package preview

import (
	"context"
	"fmt"
	"sync"

	"github.com/MASHINC1/LinkMan/internal/apperr"
)

// ErrSuperseded is returned to a request that was replaced by a newer one
// for the same target before it finished.
var ErrSuperseded = fmt.Errorf("preview superseded: %w", apperr.ErrConflict)

// Tracker keeps at most one in-flight preview per UI target. Starting a new
// request for a target cancels the previous one, whose result is discarded.
type Tracker struct {
	mu       sync.Mutex
	seq      uint64
	inflight map[string]inflight
}

type inflight struct {
	id     uint64
	cancel context.CancelFunc
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{inflight: make(map[string]inflight)}
}

// Do runs fn as the current request for target. An empty target is never
// superseded.
func (t *Tracker) Do(ctx context.Context, target string, fn func(context.Context) (Result, error)) (Result, error) {
	if target == "" {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.mu.Lock()
	t.seq++
	id := t.seq
	if prev, ok := t.inflight[target]; ok {
		prev.cancel()
	}
	t.inflight[target] = inflight{id: id, cancel: cancel}
	t.mu.Unlock()

	res, err := fn(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.inflight[target]
	if !ok || cur.id != id {
		return Result{}, ErrSuperseded
	}
	delete(t.inflight, target)
	return res, err
}

// Pending returns the number of targets with a request in flight.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight)
}

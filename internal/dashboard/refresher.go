package dashboard

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the refresh period used when none is configured
const DefaultInterval = time.Minute

// Refresher re-fetches the dashboard on a fixed interval until stopped. Its
// goroutine is bound to Start/Stop so a closed view never leaves a timer behind.
type Refresher struct {
	agg      *Aggregator
	interval time.Duration
	onUpdate func(Dashboard)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher creates a refresher that hands every fetch to onUpdate
func NewRefresher(agg *Aggregator, interval time.Duration, onUpdate func(Dashboard)) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{agg: agg, interval: interval, onUpdate: onUpdate}
}

// Start fetches immediately and then on every tick. Calling Start on a running
// refresher does nothing.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.run(ctx, r.done)
}

// Running reports whether the refresher goroutine is active
func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Stop cancels the refresher and waits for its goroutine to exit
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Refresher) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		d := r.agg.Fetch(ctx)
		if ctx.Err() != nil {
			return
		}
		r.onUpdate(d)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

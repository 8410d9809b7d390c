package client

import (
	"context"
	"sync"
	"time"
)

// Poller runs a function periodically until stopped. At most one loop runs at a time.
type Poller struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller() *Poller {
	return &Poller{}
}

// Start stops any running loop, calls fn once before returning, then calls it on
// every tick until Stop or ctx cancellation.
func (p *Poller) Start(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) {
	p.Stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	fn(ctx)

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
}

// Stop cancels the running loop and waits for an in-flight call to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

package provider

import (
	"context"
	"sync"
	"time"
)

// CallPacer caps upstream calls to at most burst per window, tracking a
// sliding window of recent call times. Free-tier providers throttle hard,
// so callers wait instead of burning the quota.
type CallPacer struct {
	mu     sync.Mutex
	burst  int
	window time.Duration
	calls  []time.Time
	now    func() time.Time
}

func NewCallPacer(burst int, window time.Duration) *CallPacer {
	return &CallPacer{
		burst:  burst,
		window: window,
		now:    time.Now,
	}
}

// Wait blocks until a call slot is free or ctx is done.
func (p *CallPacer) Wait(ctx context.Context) error {
	for {
		p.mu.Lock()
		now := p.now()
		p.prune(now)
		if len(p.calls) < p.burst {
			p.calls = append(p.calls, now)
			p.mu.Unlock()
			return nil
		}
		wakeAt := p.calls[0].Add(p.window)
		p.mu.Unlock()

		timer := time.NewTimer(wakeAt.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (p *CallPacer) prune(now time.Time) {
	cut := 0
	for cut < len(p.calls) && now.Sub(p.calls[cut]) >= p.window {
		cut++
	}
	if cut > 0 {
		p.calls = append(p.calls[:0], p.calls[cut:]...)
	}
}

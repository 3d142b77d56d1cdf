// CLAUDE:SUMMARY Shared outbound request gate with queue-position backoff for the scraping search path.
package websearch

import (
	"context"
	"sync"
	"time"
)

// Gate throttles outbound scraping requests. Each waiter sleeps in
// proportion to its position in the queue at entry, and its slot stays
// occupied for one step after it proceeds, so bursts and back-to-back
// calls both spread out instead of hammering the upstream and tripping
// its rate limits.
type Gate struct {
	mu    sync.Mutex
	depth int
	step  time.Duration
}

// NewGate creates a gate adding step delay per queued request.
func NewGate(step time.Duration) *Gate {
	if step <= 0 {
		step = 500 * time.Millisecond
	}
	return &Gate{step: step}
}

// Wait blocks for the backoff owed to the caller's queue position.
func (g *Gate) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	pos := g.depth
	g.depth++
	g.mu.Unlock()

	if pos == 0 {
		g.releaseAfterStep()
		return nil
	}

	t := time.NewTimer(time.Duration(pos) * g.step)
	defer t.Stop()
	select {
	case <-t.C:
		g.releaseAfterStep()
		return nil
	case <-ctx.Done():
		// An abandoned wait frees its slot immediately.
		g.release()
		return ctx.Err()
	}
}

// releaseAfterStep keeps the slot occupied for one more step after the
// caller proceeds. Releasing on return would let sequential calls see
// position 0 every time, making the gate a no-op.
func (g *Gate) releaseAfterStep() {
	time.AfterFunc(g.step, g.release)
}

func (g *Gate) release() {
	g.mu.Lock()
	g.depth--
	g.mu.Unlock()
}

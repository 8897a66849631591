package summarizer

import (
	"context"
	"sync"
	"time"

	"github.com/deusflow/newsletter/internal/logger"
)

// Gate bounds how many inference calls reach the model at once and applies
// a per-call timeout. With one slot every call is serialized, which is the
// safe choice for models that are not reentrant.
type Gate struct {
	next    Summarizer
	slots   chan struct{}
	timeout time.Duration

	mu          sync.Mutex
	calls       int
	failures    int
	inFlight    int
	peak        int
	waitTotal   time.Duration
	lastLatency time.Duration
}

func NewGate(next Summarizer, slots int, timeout time.Duration) *Gate {
	if slots <= 0 {
		slots = 1
	}
	return &Gate{
		next:    next,
		slots:   make(chan struct{}, slots),
		timeout: timeout,
	}
}

func (g *Gate) Summarize(ctx context.Context, text string) (string, error) {
	queued := time.Now()
	select {
	case g.slots <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-g.slots }()

	g.enter(time.Since(queued))

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	summary, err := g.next.Summarize(callCtx, text)
	g.leave(time.Since(start), err)

	if err != nil {
		logger.Warn("Summarization failed", "error", err, "input_runes", len([]rune(text)))
		return "", err
	}
	return summary, nil
}

func (g *Gate) enter(waited time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.inFlight++
	if g.inFlight > g.peak {
		g.peak = g.inFlight
	}
	g.waitTotal += waited
}

func (g *Gate) leave(latency time.Duration, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inFlight--
	g.lastLatency = latency
	if err != nil {
		g.failures++
	}
}

// GetStats returns current gate statistics
func (g *Gate) GetStats() map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	return map[string]interface{}{
		"slots":           cap(g.slots),
		"calls":           g.calls,
		"failures":        g.failures,
		"in_flight":       g.inFlight,
		"peak_in_flight":  g.peak,
		"total_wait_ms":   g.waitTotal.Milliseconds(),
		"last_latency_ms": g.lastLatency.Milliseconds(),
	}
}

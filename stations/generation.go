package stations

import (
	"context"
	"sync"
)

// Generations hands out tickets for successive list/detail requests. Starting
// a new request cancels the previous one, and a ticket reports whether its
// result is still the latest one so callers can drop late responses.
type Generations struct {
	mu      sync.Mutex
	current uint64
	cancel  context.CancelFunc
}

type Ticket struct {
	ctx   context.Context
	gen   uint64
	owner *Generations
}

func (g *Generations) Begin(parent context.Context) Ticket {
	ctx, cancel := context.WithCancel(parent)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	g.current++
	g.cancel = cancel
	return Ticket{ctx: ctx, gen: g.current, owner: g}
}

// Stop cancels the request in flight, if any.
func (g *Generations) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

func (t Ticket) Context() context.Context {
	return t.ctx
}

func (t Ticket) Generation() uint64 {
	return t.gen
}

func (t Ticket) Current() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.owner.current == t.gen
}

package graph

import "sync"

// Locked serialises access to a Graph for callers that share one between
// goroutines. The Graph itself does no locking.
type Locked struct {
	mu    sync.Mutex
	graph *Graph
}

// NewLocked wraps g
func NewLocked(g *Graph) *Locked {
	return &Locked{graph: g}
}

// With runs fn while holding the lock. fn must not retain g after it
// returns.
func (l *Locked) With(fn func(g *Graph) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.graph)
}

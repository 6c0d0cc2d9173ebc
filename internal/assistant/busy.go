package assistant

import (
	"errors"
	"sync"
)

// ErrBusy is returned when a session already has a question in flight
var ErrBusy = errors.New("assistant request already in progress")

// BusyGuard allows one outstanding assistant call per session
type BusyGuard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewBusyGuard() *BusyGuard {
	return &BusyGuard{busy: make(map[string]struct{})}
}

// Acquire marks session busy and returns a release func, or ErrBusy
func (g *BusyGuard) Acquire(session string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.busy[session]; ok {
		return nil, ErrBusy
	}
	g.busy[session] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, session)
			g.mu.Unlock()
		})
	}, nil
}

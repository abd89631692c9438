package feed

import (
	"context"
	"sync"
)

// MemoryFeed is an in-process feed for tests and single-process sqlite
// deployments, where every writer shares the process anyway.
type MemoryFeed struct {
	mu     sync.Mutex
	subs   []func(Event)
	closed bool
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{}
}

func (f *MemoryFeed) Publish(ctx context.Context, ev Event) error {
	f.mu.Lock()
	subs := make([]func(Event), len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, onEvent := range subs {
		onEvent(ev)
	}
	return nil
}

func (f *MemoryFeed) Subscribe(ctx context.Context, onEvent func(Event)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.subs = append(f.subs, onEvent)
	}
	return nil
}

func (f *MemoryFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.subs = nil
	return nil
}

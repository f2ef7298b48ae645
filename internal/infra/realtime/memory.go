package realtime

import (
	"context"
	"sync"
)

type subscriber struct {
	ch     chan Change
	done   chan struct{}
	once   sync.Once
	closed bool
}

// MemoryHub is a single-process Hub for deployments without Redis.
type MemoryHub struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

func NewMemoryHub() *MemoryHub {
	return &MemoryHub{subs: make(map[string]map[*subscriber]struct{})}
}

// Publish never blocks; a subscriber with a full buffer misses the change.
func (h *MemoryHub) Publish(_ context.Context, userID string, ch Change) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs[userID] {
		if s.closed {
			continue
		}
		select {
		case s.ch <- ch:
		default:
		}
	}
	return nil
}

func (h *MemoryHub) Subscribe(ctx context.Context, userID string) (<-chan Change, func(), error) {
	s := &subscriber{
		ch:   make(chan Change, subscriberBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*subscriber]struct{})
	}
	h.subs[userID][s] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		s.once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], s)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			s.closed = true
			close(s.ch)
			h.mu.Unlock()
			close(s.done)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-s.done:
		}
	}()

	return s.ch, cancel, nil
}

func (h *MemoryHub) subscriberCount(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

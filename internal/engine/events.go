package engine

import (
	"context"
	"sync"
)

// broadcaster fans publication events out to subscribers. Slow subscribers
// miss events instead of blocking publication.
type broadcaster struct {
	mu       sync.Mutex
	watchers map[uint64]chan Event
	nextID   uint64
}

func newBroadcaster() *broadcaster {
	return &broadcaster{
		watchers: make(map[uint64]chan Event),
	}
}

func (b *broadcaster) Subscribe(ctx context.Context) (<-chan Event, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		ch := make(chan Event)
		close(ch)
		return ch, nil
	}
	ch := make(chan Event, 8)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.watchers, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

// Broadcast sends while holding the lock so a concurrent unsubscribe cannot
// close a channel mid-send.
func (b *broadcaster) Broadcast(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.watchers {
		select {
		case ch <- evt:
		default:
		}
	}
}

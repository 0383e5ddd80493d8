package database

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// memoryPubsub is an in-memory Pubsub implementation for tests and
// single-replica deployments without PostgreSQL.
type memoryPubsub struct {
	mut       sync.RWMutex
	listeners map[string]map[uuid.UUID]Listener
}

func (m *memoryPubsub) Subscribe(event string, listener Listener) (cancel func(), err error) {
	m.mut.Lock()
	defer m.mut.Unlock()

	eventListeners, ok := m.listeners[event]
	if !ok {
		eventListeners = map[uuid.UUID]Listener{}
		m.listeners[event] = eventListeners
	}

	var id uuid.UUID
	for {
		id = uuid.New()
		if _, ok := eventListeners[id]; !ok {
			break
		}
	}

	eventListeners[id] = listener
	return func() {
		m.mut.Lock()
		defer m.mut.Unlock()
		delete(m.listeners[event], id)
	}, nil
}

func (m *memoryPubsub) Publish(event string, message []byte) error {
	m.mut.RLock()
	defer m.mut.RUnlock()
	listeners, ok := m.listeners[event]
	if !ok {
		return nil
	}
	var wg sync.WaitGroup
	for _, listener := range listeners {
		wg.Add(1)
		listener := listener
		go func() {
			defer wg.Done()
			listener(context.Background(), message)
		}()
	}
	// Wait for listener dispatch so tests observe the invalidation
	// before Publish returns.
	wg.Wait()
	return nil
}

func (*memoryPubsub) Close() error {
	return nil
}

func NewPubsubInMemory() Pubsub {
	return &memoryPubsub{
		listeners: make(map[string]map[uuid.UUID]Listener),
	}
}

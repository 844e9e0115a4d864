package live

import (
	"context"
	"log/slog"
	"sync"
)

// Query is a read expression evaluated against the store. It is re-run after
// every write to the watched collection.
type Query[T any] func(ctx context.Context) (T, error)

// Subscription is a live handle on a query's results. A fresh snapshot
// arrives on Updates after every relevant write; only the latest snapshot is
// retained when the subscriber is slow, so writers are never blocked.
type Subscription[T any] struct {
	hub         *Hub
	collections []string
	id          uint64

	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	mu      sync.Mutex
	query   Query[T]
	gen     uint64
	running bool
	dirty   bool
	closed  bool

	updates chan T
}

// Subscribe registers a live query on one or more collections and schedules
// its initial evaluation. The query re-runs after a write to any of them.
// The caller must Close the subscription when done with it.
func Subscribe[T any](h *Hub, query Query[T], collections ...string) (*Subscription[T], error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Subscription[T]{
		hub:         h,
		collections: collections,
		ctx:         ctx,
		cancel:      cancel,
		logger:      h.logger,
		query:       query,
		updates:     make(chan T, 1),
	}

	id, err := h.register(s.trigger, collections...)
	if err != nil {
		cancel()
		return nil, err
	}
	s.id = id

	h.schedule(s.trigger)
	return s, nil
}

// Updates returns the snapshot channel. The channel is closed when the
// subscription is closed; a buffered final snapshot may still be readable
// afterwards.
func (s *Subscription[T]) Updates() <-chan T {
	return s.updates
}

// SetQuery replaces the query, typically because a filter parameter changed.
// The generation counter is bumped so an in-flight result from the previous
// query is discarded instead of being delivered after the switch, and a
// fresh evaluation of the new query is scheduled.
func (s *Subscription[T]) SetQuery(query Query[T]) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.query = query
	s.gen++
	s.mu.Unlock()

	s.hub.schedule(s.trigger)
}

// Close tears down the subscription. Writes completing afterwards neither
// panic nor deliver into the dead handle.
func (s *Subscription[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.updates)
	s.mu.Unlock()

	s.cancel()
	s.hub.unregister(s.id, s.collections...)
}

// trigger requests a re-evaluation. If one is already running it is marked
// dirty and re-runs once more after finishing, coalescing notification
// bursts into a single trailing snapshot.
func (s *Subscription[T]) trigger() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.running {
		s.dirty = true
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.run()
}

// run evaluates the query and delivers the snapshot, repeating while the
// subscription is dirty or the query generation moved underneath it.
func (s *Subscription[T]) run() {
	for {
		s.mu.Lock()
		if s.closed {
			s.running = false
			s.mu.Unlock()
			return
		}
		gen := s.gen
		query := s.query
		s.dirty = false
		s.mu.Unlock()

		value, err := query(s.ctx)

		s.mu.Lock()
		stale := s.closed || gen != s.gen
		if !stale && err == nil {
			s.deliverLocked(value)
		}
		if s.closed || (!s.dirty && gen == s.gen) {
			s.running = false
			s.mu.Unlock()
			if err != nil && !stale {
				s.logger.Error("live query failed", "collections", s.collections, "err", err)
			}
			return
		}
		s.mu.Unlock()

		if err != nil && !stale {
			s.logger.Error("live query failed", "collections", s.collections, "err", err)
		}
	}
}

// deliverLocked pushes a snapshot, replacing an unconsumed older one.
// Called with s.mu held; the buffer-1 channel plus the lock guarantee the
// send never blocks.
func (s *Subscription[T]) deliverLocked(value T) {
	select {
	case s.updates <- value:
	default:
		select {
		case <-s.updates:
		default:
		}
		s.updates <- value
	}
}

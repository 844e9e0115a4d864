package live

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Hub fans out write notifications to active subscriptions. Repositories
// report each committed write with the names of the mutated collections; the
// hub re-runs every subscription registered on those collections on a
// bounded worker pool and pushes fresh snapshots to subscribers.
//
// The hub knows nothing about the storage engine; it only connects
// collection names to subscription refresh triggers.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[uint64]func()
	nextID uint64
	closed bool

	pool   *ants.Pool
	logger *slog.Logger
}

// Option configures a Hub.
type Option func(*Hub) error

// WithPoolSize sets the worker pool size for re-running live queries.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(h *Hub) error {
		if size < 1 {
			size = 1
		}
		if h.pool != nil {
			h.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		h.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) error {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
		return nil
	}
}

// NewHub creates a new hub.
func NewHub(opts ...Option) (*Hub, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	h := &Hub{
		subs:   make(map[string]map[uint64]func()),
		pool:   pool,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(h); err != nil {
			pool.Release()
			return nil, err
		}
	}

	return h, nil
}

// Notify reports a committed write to the given collections. Every
// subscription on a mutated collection is scheduled for re-evaluation.
// Notify never blocks on subscribers.
func (h *Hub) Notify(collections ...string) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	var triggers []func()
	for _, collection := range collections {
		for _, trigger := range h.subs[collection] {
			triggers = append(triggers, trigger)
		}
	}
	h.mu.Unlock()

	for _, trigger := range triggers {
		h.schedule(trigger)
	}
}

// Close tears down the hub and its worker pool. Subscriptions created from
// the hub stop receiving updates; they should still be closed individually
// to release their channels.
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.subs = nil
	h.mu.Unlock()

	h.pool.Release()
	return nil
}

// register adds a refresh trigger under each collection and returns its id.
func (h *Hub) register(trigger func(), collections ...string) (uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, ErrHubClosed
	}
	h.nextID++
	id := h.nextID
	for _, collection := range collections {
		if h.subs[collection] == nil {
			h.subs[collection] = make(map[uint64]func())
		}
		h.subs[collection][id] = trigger
	}
	return id, nil
}

// unregister removes a refresh trigger. Safe to call after Close.
func (h *Hub) unregister(id uint64, collections ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		return
	}
	for _, collection := range collections {
		delete(h.subs[collection], id)
	}
}

// schedule runs a trigger on the worker pool.
func (h *Hub) schedule(trigger func()) {
	if err := h.pool.Submit(trigger); err != nil {
		h.logger.Warn("dropping live query refresh", "err", err)
	}
}

// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSweepInterval is how often a [MemoryStore] collects expired entries.
const DefaultSweepInterval = 5 * time.Minute

// # Expiry Heap

type memoryItem[T any] struct {
	value      T
	expiresAt  time.Time
	generation uint64
}

// expiryRef points at one Put of a key. A later Put of the same key bumps
// the generation, which makes older refs stale.
type expiryRef struct {
	id         string
	expiresAt  time.Time
	generation uint64
}

type expiryHeap []expiryRef

func (h expiryHeap) Len() int           { return len(h) }
func (h expiryHeap) Less(i, j int) bool { return h[i].expiresAt.Before(h[j].expiresAt) }
func (h expiryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *expiryHeap) Push(x any)        { *h = append(*h, x.(expiryRef)) }
func (h *expiryHeap) Pop() any {
	old := *h
	last := old[len(old)-1]
	*h = old[:len(old)-1]
	return last
}

// # Memory Store

// MemoryOption configures a [MemoryStore].
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
	name     string
}

// WithSweepInterval overrides [DefaultSweepInterval].
func WithSweepInterval(interval time.Duration) MemoryOption {
	return func(config *memoryConfig) { config.interval = interval }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(config *memoryConfig) { config.now = now }
}

// WithLogger attaches a logger and a store name used in sweep events.
func WithLogger(logger *slog.Logger, name string) MemoryOption {
	return func(config *memoryConfig) {
		config.logger = logger
		config.name = name
	}
}

// MemoryStore is an in-process [Store] guarded by a single mutex.
//
// Expired entries are removed by a background sweep started with [MemoryStore.Start].
// The sweep pops only heap refs whose deadline passed and takes the same lock
// as Put, Get and Delete, so a sweep and a request racing on one key resolve in
// lock order.
type MemoryStore[T any] struct {
	mu         sync.Mutex
	items      map[string]memoryItem[T]
	expiries   expiryHeap
	generation uint64

	config memoryConfig

	startOnce sync.Once
	closeOnce sync.Once
	running   atomic.Bool
	stop      chan struct{}
	done      chan struct{}
}

// NewMemoryStore creates an empty store. Call Start to begin sweeping.
func NewMemoryStore[T any](options ...MemoryOption) *MemoryStore[T] {
	config := memoryConfig{
		interval: DefaultSweepInterval,
		now:      time.Now,
		logger:   slog.Default(),
		name:     "memory",
	}
	for _, option := range options {
		option(&config)
	}

	return &MemoryStore[T]{
		items:  make(map[string]memoryItem[T]),
		config: config,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Put implements [Store].
func (store *MemoryStore[T]) Put(_ context.Context, id string, value T, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.generation++
	expiresAt := store.config.now().Add(ttl)

	store.items[id] = memoryItem[T]{value: value, expiresAt: expiresAt, generation: store.generation}
	heap.Push(&store.expiries, expiryRef{id: id, expiresAt: expiresAt, generation: store.generation})

	return nil
}

// Get implements [Store].
func (store *MemoryStore[T]) Get(_ context.Context, id string) (Entry[T], error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	item, ok := store.items[id]
	if !ok {
		return Entry[T]{}, ErrNotFound
	}
	return Entry[T]{Value: item.value, ExpiresAt: item.expiresAt}, nil
}

// Delete implements [Store]. The heap ref is left behind and discarded by
// the sweep once its deadline passes.
func (store *MemoryStore[T]) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.items, id)
	return nil
}

// Len returns the number of stored entries, expired or not.
func (store *MemoryStore[T]) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.items)
}

// Sweep removes every entry whose deadline is at or before the current time
// and returns how many were removed.
func (store *MemoryStore[T]) Sweep() int {
	store.mu.Lock()
	defer store.mu.Unlock()

	now := store.config.now()
	removed := 0

	for store.expiries.Len() > 0 && !store.expiries[0].expiresAt.After(now) {
		ref := heap.Pop(&store.expiries).(expiryRef)

		item, ok := store.items[ref.id]
		if !ok || item.generation != ref.generation {
			continue
		}

		delete(store.items, ref.id)
		removed++
	}

	return removed
}

// # Lifecycle

// Start launches the sweep loop. It returns immediately; the loop stops when
// context is cancelled or Close is called. Calling Start twice is a no-op.
func (store *MemoryStore[T]) Start(context context.Context) {
	store.startOnce.Do(func() {
		store.running.Store(true)
		go store.run(context)
	})
}

func (store *MemoryStore[T]) run(context context.Context) {
	defer close(store.done)

	ticker := time.NewTicker(store.config.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := store.Sweep(); removed > 0 {
				store.config.logger.Debug("session_sweep_completed",
					slog.String("store", store.config.name),
					slog.Int("removed", removed),
				)
			}
		case <-store.stop:
			return
		case <-context.Done():
			return
		}
	}
}

// Close stops the sweep loop and waits for it to exit. A later Start is a no-op.
func (store *MemoryStore[T]) Close() {
	store.closeOnce.Do(func() {
		close(store.stop)
		store.startOnce.Do(func() {})

		if store.running.Load() {
			<-store.done
		}
	})
}

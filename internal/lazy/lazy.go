// Package lazy holds expensive process-wide handles (embedding models,
// parsers) that are built on first use and then shared.
//
// A Handle moves through three states: uninitialized, loading and ready.
// Callers arriving while a load is in flight wait for that load instead of
// starting another one. A failed load leaves the handle uninitialized, so
// the next Get tries again.
package lazy

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

const loadKey = "load"

type Loader[T any] func(ctx context.Context) (T, error)

type Handle[T any] struct {
	load  Loader[T]
	group singleflight.Group

	mu    sync.RWMutex
	value T
	ready bool
}

func New[T any](load Loader[T]) *Handle[T] {
	return &Handle[T]{load: load}
}

// Ready wraps an already built value.
func Ready[T any](value T) *Handle[T] {
	return &Handle[T]{value: value, ready: true}
}

// Get returns the loaded value, loading it if needed. The load itself is
// not tied to ctx; if ctx ends first Get returns ctx.Err() and the load
// keeps going for the other waiters.
func (h *Handle[T]) Get(ctx context.Context) (T, error) {
	if v, ok := h.Loaded(); ok {
		return v, nil
	}

	ch := h.group.DoChan(loadKey, func() (any, error) {
		return h.loadShared(context.WithoutCancel(ctx))
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// loadShared runs the loader once for every waiter. A panicking loader
// counts as a failed load.
func (h *Handle[T]) loadShared(ctx context.Context) (v any, err error) {
	if v, ok := h.Loaded(); ok {
		return v, nil
	}

	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("load panicked: %v", r)
		}
	}()

	loaded, err := h.load(ctx)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.value = loaded
	h.ready = true
	h.mu.Unlock()

	return loaded, nil
}

func (h *Handle[T]) Loaded() (T, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.value, h.ready
}

// Package lifecycle provides scoped ownership helpers for resources that
// must be released exactly once on every exit path.
package lifecycle

import "sync"

// Handle owns a value and the function that releases it.
// The zero value and a nil *Handle are both empty handles.
type Handle[T any] struct {
	mu      sync.Mutex
	value   T
	release func(T) error
	valid   bool
}

// New wraps v so that release(v) runs when the handle is released.
// A nil release function is allowed.
func New[T any](v T, release func(T) error) *Handle[T] {
	return &Handle[T]{value: v, release: release, valid: true}
}

// Get returns the owned value, or the zero value for an empty handle.
func (h *Handle[T]) Get() T {
	var zero T
	if h == nil {
		return zero
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.valid {
		return zero
	}
	return h.value
}

// Valid reports whether the handle still owns its value.
func (h *Handle[T]) Valid() bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.valid
}

// Release runs the release function once. Later calls return nil.
func (h *Handle[T]) Release() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	if !h.valid {
		h.mu.Unlock()
		return nil
	}
	v, release := h.value, h.release
	h.clear()
	h.mu.Unlock()

	if release == nil {
		return nil
	}
	return release(v)
}

// Take transfers ownership of the value to the caller. The handle becomes
// empty and its release function will not run.
func (h *Handle[T]) Take() (T, bool) {
	var zero T
	if h == nil {
		return zero, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.valid {
		return zero, false
	}
	v := h.value
	h.clear()
	return v, true
}

func (h *Handle[T]) clear() {
	var zero T
	h.value = zero
	h.release = nil
	h.valid = false
}

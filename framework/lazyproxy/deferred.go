package lazyproxy

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Deferred is the single-assignment holder backing one proxy instance.
//
// It is bound at creation to a construction callback that resolves the real
// implementation against a specific container scope. The callback runs at
// most once successfully; the result is cached and every later Obtain
// returns it. A failed construction is NOT cached — the next Obtain retries,
// so a proxy resolved before a scope was fully wired recovers once the
// missing registration appears.
type Deferred[T any] struct {
	build func() (T, error)

	group singleflight.Group

	mu    sync.RWMutex
	value T
	done  bool
}

// NewDeferred creates a resolver bound to a construction callback.
func NewDeferred[T any](build func() (T, error)) *Deferred[T] {
	return &Deferred[T]{build: build}
}

// Obtain returns the real instance, constructing it on first use.
//
// Concurrent first calls are collapsed: at most one construction runs and
// every caller observes the same fully constructed instance. The value is
// committed to the cache only on success, so errors propagate to every
// in-flight caller and the resolver stays retryable.
func (d *Deferred[T]) Obtain() (T, error) {
	d.mu.RLock()
	if d.done {
		v := d.value
		d.mu.RUnlock()
		return v, nil
	}
	d.mu.RUnlock()

	v, err, _ := d.group.Do("construct", func() (any, error) {
		// A previous flight may have committed while we queued.
		d.mu.RLock()
		done, cached := d.done, d.value
		d.mu.RUnlock()
		if done {
			return cached, nil
		}

		built, err := d.build()
		if err != nil {
			return nil, err
		}

		d.mu.Lock()
		d.value = built
		d.done = true
		d.mu.Unlock()
		return built, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// MustObtain returns the real instance or panics with the construction
// error. Generated forwarder methods without an error return use it: Go
// offers no other channel to surface a resolution failure from such a
// member.
func (d *Deferred[T]) MustObtain() T {
	v, err := d.Obtain()
	if err != nil {
		panic(err)
	}
	return v
}

// Resolved reports whether the real instance has been constructed.
func (d *Deferred[T]) Resolved() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.done
}

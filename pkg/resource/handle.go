package resource

import "errors"

// ErrReleased is returned when a handle token is released twice.
var ErrReleased = errors.New("resource: handle already released")

// Finalizer runs exactly once, when the last handle to a resource is
// released. Tests use it as a destruction counter; callers can use it to
// free external state tied to the resource.
type Finalizer func(Resource)

// shared is the count block owned jointly by every handle to a resource.
// The count is a plain int: the ownership layer is single-threaded by
// design and provides no locking (see package doc).
type shared struct {
	res       Resource
	count     int
	finalizer Finalizer
	destroyed bool
}

// Handle is a reference-counted owner of a resource.
//
// Every Handle is a distinct ownership token: Retain hands out a new
// token against the same count, and each token can be released exactly
// once. Releasing a token twice is reported as ErrReleased without
// touching the count, so a double release can never reach the count or
// re-run the finalizer.
type Handle struct {
	s        *shared
	released bool
}

// HandleOption configures a new handle chain.
type HandleOption func(*shared)

// WithFinalizer sets the function invoked when the count reaches zero.
func WithFinalizer(f Finalizer) HandleOption {
	return func(s *shared) {
		s.finalizer = f
	}
}

// NewHandle wraps a resource in a fresh ownership chain with count 1.
func NewHandle(res Resource, opts ...HandleOption) *Handle {
	s := &shared{res: res, count: 1}
	for _, opt := range opts {
		opt(s)
	}
	return &Handle{s: s}
}

// Resource returns the owned resource, or nil once this token has been
// released.
func (h *Handle) Resource() Resource {
	if h.released {
		return nil
	}
	return h.s.res
}

// Count returns the current ownership count.
func (h *Handle) Count() int {
	if h.released {
		return 0
	}
	return h.s.count
}

// Retain increments the count and returns a new token for the same
// resource. Aliasing is always count-tracked: the returned handle shares
// the count, it never starts an independently destroyable chain.
// Retain on a released token returns nil.
func (h *Handle) Retain() *Handle {
	if h.released {
		return nil
	}
	h.s.count++
	return &Handle{s: h.s}
}

// Release gives up this token's ownership. When the count reaches zero
// the finalizer runs exactly once and the resource is detached.
// Releasing the same token again returns ErrReleased.
func (h *Handle) Release() error {
	if h.released {
		return ErrReleased
	}
	h.released = true

	h.s.count--
	if h.s.count == 0 && !h.s.destroyed {
		h.s.destroyed = true
		if h.s.finalizer != nil {
			h.s.finalizer(h.s.res)
		}
		h.s.res = nil
	}
	return nil
}

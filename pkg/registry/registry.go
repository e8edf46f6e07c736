// Package registry maps resource kinds and canonical names to their
// constructors, so new kinds plug in without touching dispatch code.
//
// The default registry is populated once during package initialization
// (pkg/resources registers the built-in kinds) and treated as read-only
// afterwards; the mutex exists for that initialization window and for
// custom registries built in tests.
package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/gofhir/fhircore/pkg/logger"
	"github.com/gofhir/fhircore/pkg/resource"
)

// Constructor builds a new, empty resource of one kind.
type Constructor func(id string) (resource.Resource, error)

// ErrUnknownKind mirrors the resource-package sentinel so callers can
// match either layer with errors.Is.
var ErrUnknownKind = resource.ErrUnknownKind

// ErrConflict is returned when a registration would bind an already-used
// kind or name to a different constructor.
var ErrConflict = fmt.Errorf("registry: conflicting registration")

// entry binds one kind to its canonical name and constructor.
type entry struct {
	kind resource.Kind
	name string
	ctor Constructor
	// ctorPtr identifies the constructor function so that re-registering
	// the same function is recognized as idempotent.
	ctorPtr uintptr
}

// Registry is the kind → constructor mapping.
// Lookups by name and by kind consult the same entries.
type Registry struct {
	mu     sync.RWMutex
	byKind map[resource.Kind]*entry
	byName map[string]*entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byKind: make(map[resource.Kind]*entry),
		byName: make(map[string]*entry),
	}
}

// Register binds kind and name to ctor.
//
// Re-registering an identical binding is harmless. Binding an occupied
// kind or name to a different constructor is a configuration error and
// is rejected at registration time.
func (r *Registry) Register(kind resource.Kind, name string, ctor Constructor) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: kind %d", ErrUnknownKind, kind)
	}
	if name == "" || ctor == nil {
		return fmt.Errorf("%w: empty name or nil constructor for kind %s", ErrConflict, kind)
	}

	ctorPtr := reflect.ValueOf(ctor).Pointer()

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.byKind[kind]; ok {
		if e.name == name && e.ctorPtr == ctorPtr {
			return nil
		}
		logger.Warn("rejected conflicting registration for kind %s (name %q)", kind, name)
		return fmt.Errorf("%w: kind %s already registered as %q", ErrConflict, kind, e.name)
	}
	if e, ok := r.byName[name]; ok {
		logger.Warn("rejected conflicting registration for name %q (kind %s)", name, kind)
		return fmt.Errorf("%w: name %q already registered for kind %s", ErrConflict, name, e.kind)
	}

	e := &entry{kind: kind, name: name, ctor: ctor, ctorPtr: ctorPtr}
	r.byKind[kind] = e
	r.byName[name] = e
	return nil
}

// NewByName constructs a resource by canonical name, case-sensitively.
// Unknown names yield ErrUnknownKind with no side effects.
func (r *Registry) NewByName(name, id string) (resource.Resource, error) {
	r.mu.RLock()
	e := r.byName[name]
	r.mu.RUnlock()

	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return e.ctor(id)
}

// NewByKind constructs a resource by kind tag.
// Unknown kinds yield ErrUnknownKind with no side effects.
func (r *Registry) NewByKind(kind resource.Kind, id string) (resource.Resource, error) {
	r.mu.RLock()
	e := r.byKind[kind]
	r.mu.RUnlock()

	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return e.ctor(id)
}

// Acquire constructs a resource by canonical name and wraps it in an
// ownership handle with count 1.
func (r *Registry) Acquire(name, id string, opts ...resource.HandleOption) (*resource.Handle, error) {
	res, err := r.NewByName(name, id)
	if err != nil {
		return nil, err
	}
	return resource.NewHandle(res, opts...), nil
}

// Contains reports whether name is registered.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

// KindOf resolves a registered canonical name to its kind tag.
// Unknown names yield KindUnknown.
func (r *Registry) KindOf(name string) resource.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.byName[name]; ok {
		return e.kind
	}
	return resource.KindUnknown
}

// Count returns the number of registered kinds.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKind)
}

// Names returns all registered canonical names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// defaultRegistry holds the process-wide kind bindings.
var defaultRegistry = New()

// Default returns the default registry.
func Default() *Registry {
	return defaultRegistry
}

// Register binds a kind in the default registry.
func Register(kind resource.Kind, name string, ctor Constructor) error {
	return defaultRegistry.Register(kind, name, ctor)
}

// NewByName constructs a resource from the default registry by name.
func NewByName(name, id string) (resource.Resource, error) {
	return defaultRegistry.NewByName(name, id)
}

// NewByKind constructs a resource from the default registry by kind.
func NewByKind(kind resource.Kind, id string) (resource.Resource, error) {
	return defaultRegistry.NewByKind(kind, id)
}

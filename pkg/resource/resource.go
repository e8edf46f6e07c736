// Package resource defines the polymorphic contract every resource kind
// implements, the embedded base they share, and the reference-counted
// ownership handles that control resource lifetime.
//
// Calling code stays kind-agnostic: it interacts with resources only
// through the Resource interface, obtained from the registry or from a
// concrete constructor in pkg/resources.
package resource

import (
	"errors"

	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/primitive"
)

// ErrInvalidID is returned when a resource id fails lexical validation:
// ids are non-empty, at most 64 characters, letters/digits/hyphen/period.
var ErrInvalidID = errors.New("resource: invalid id")

// ErrUnknownKind is returned when an operation names a kind outside the
// closed enumeration.
var ErrUnknownKind = errors.New("resource: unknown kind")

// Resource is the dispatch contract supplied by every kind.
//
// The six operations beyond identity are uniform across kinds:
//
//   - Validate reports whether kind-invariant required fields are
//     populated. A false result is a normal outcome, not an error.
//   - Document renders the resource to a document whose root
//     resourceType field equals the kind's canonical name. Unset fields
//     are omitted, never emitted as null.
//   - Populate mutates the resource in place from a document. It returns
//     false, leaving the resource in its prior state, when the
//     document's declared type does not match or a present scalar field
//     has the wrong shape.
//   - Clone produces an independent resource with equal field values and
//     a distinct identity.
//   - Label returns a non-empty human-readable descriptor, falling back
//     to the canonical kind name.
//   - IsActive is the kind-specific activity predicate.
type Resource interface {
	ID() string
	Kind() Kind

	Validate() bool
	Document() document.Document
	Populate(document.Document) bool
	Clone() Resource
	Label() string
	IsActive() bool
}

// Base holds the state shared by every resource kind: the logical id and
// the kind tag. It carries no per-kind logic. Concrete kinds embed Base
// and supply the six contract operations themselves.
type Base struct {
	id   string
	kind Kind
}

// NewBase validates the id and builds the shared base for a kind.
// An invalid id or kind yields an error and no partial object.
func NewBase(kind Kind, id string) (Base, error) {
	if !kind.Valid() {
		return Base{}, ErrUnknownKind
	}
	if !primitive.IsValidID(id) {
		return Base{}, ErrInvalidID
	}
	return Base{id: id, kind: kind}, nil
}

// ID returns the resource's logical id.
func (b *Base) ID() string {
	return b.id
}

// Kind returns the resource kind, fixed at construction.
func (b *Base) Kind() Kind {
	return b.kind
}

// DocumentBase starts an output document with the shared fields:
// resourceType set to the canonical kind name, and the id.
func (b *Base) DocumentBase() document.Document {
	d := document.New()
	d.SetString("resourceType", b.kind.String())
	d.SetString("id", b.id)
	return d
}

// MatchesDocument reports whether doc declares this base's kind.
func (b *Base) MatchesDocument(doc document.Document) bool {
	rt, ok := doc.GetString("resourceType")
	return ok && rt == b.kind.String()
}

// PopulateBase applies the shared fields from doc. The declared type must
// match the base's kind. A document id replaces the current one only when
// it is lexically valid; the id invariant always holds after populate.
func (b *Base) PopulateBase(doc document.Document) bool {
	if !b.MatchesDocument(doc) {
		return false
	}
	if id, ok := doc.GetString("id"); ok && primitive.IsValidID(id) {
		b.id = id
	}
	return true
}

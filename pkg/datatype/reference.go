package datatype

import (
	"strings"

	"github.com/gofhir/fhircore/pkg/document"
)

// Reference is a string pointer from one resource to another, of the
// "Kind/id" form. It is a value, not a managed pointer: the referenced
// resource's lifecycle is independent.
type Reference struct {
	Reference string
	Type      string
	Display   string
}

// NewReference creates a Reference from a literal reference string.
func NewReference(reference, display string) *Reference {
	return &Reference{Reference: reference, Display: display}
}

// ParseReference reads a Reference from an object-shaped document node.
func ParseReference(v any) (*Reference, bool) {
	obj, ok := document.AsObject(v)
	if !ok {
		return nil, false
	}

	r := &Reference{}
	r.Reference, _ = obj.GetString("reference")
	r.Type, _ = obj.GetString("type")
	r.Display, _ = obj.GetString("display")
	return r, true
}

// Document renders the Reference, emitting only populated fields.
func (r *Reference) Document() document.Document {
	d := document.New()
	d.SetString("reference", r.Reference)
	d.SetString("type", r.Type)
	d.SetString("display", r.Display)
	return d
}

// TargetKindName returns the resource kind name of a "Kind/id" literal
// reference, or "" when the reference does not have that form.
func (r *Reference) TargetKindName() string {
	idx := strings.IndexByte(r.Reference, '/')
	if idx <= 0 {
		return ""
	}
	return r.Reference[:idx]
}

// TargetID returns the id portion of a "Kind/id" literal reference,
// or "" when the reference does not have that form.
func (r *Reference) TargetID() string {
	idx := strings.IndexByte(r.Reference, '/')
	if idx < 0 || idx == len(r.Reference)-1 {
		return ""
	}
	return r.Reference[idx+1:]
}

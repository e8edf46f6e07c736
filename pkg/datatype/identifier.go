package datatype

import (
	"github.com/gofhir/fhircore/pkg/document"
)

// Identifier is a business identifier carried by a resource.
type Identifier struct {
	Use    string
	System string
	Value  string
}

// NewIdentifier creates an Identifier for the given system and value.
func NewIdentifier(system, value string) *Identifier {
	return &Identifier{System: system, Value: value}
}

// ParseIdentifier reads an Identifier from an object-shaped document node.
func ParseIdentifier(v any) (*Identifier, bool) {
	obj, ok := document.AsObject(v)
	if !ok {
		return nil, false
	}

	id := &Identifier{}
	id.Use, _ = obj.GetString("use")
	id.System, _ = obj.GetString("system")
	id.Value, _ = obj.GetString("value")
	return id, true
}

// Document renders the Identifier, emitting only populated fields.
func (id *Identifier) Document() document.Document {
	d := document.New()
	d.SetString("use", id.Use)
	d.SetString("system", id.System)
	d.SetString("value", id.Value)
	return d
}

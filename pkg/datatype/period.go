package datatype

import (
	"github.com/gofhir/fhircore/pkg/document"
)

// Period is a time span bounded by two dateTime strings.
// Bounds are carried lexically; open ends stay empty.
type Period struct {
	Start string
	End   string
}

// ParsePeriod reads a Period from an object-shaped document node.
func ParsePeriod(v any) (*Period, bool) {
	obj, ok := document.AsObject(v)
	if !ok {
		return nil, false
	}

	p := &Period{}
	p.Start, _ = obj.GetString("start")
	p.End, _ = obj.GetString("end")
	return p, true
}

// Document renders the Period, emitting only populated fields.
func (p *Period) Document() document.Document {
	d := document.New()
	d.SetString("start", p.Start)
	d.SetString("end", p.End)
	return d
}

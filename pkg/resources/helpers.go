package resources

import (
	"github.com/shopspring/decimal"

	"github.com/gofhir/fhircore/pkg/datatype"
	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/primitive"
)

// readCode reads a code-valued scalar field. A present non-string value
// is a shape error. Returns the value, whether the key was present, and
// whether the shape was acceptable.
func readCode(doc document.Document, key string) (val string, present, ok bool) {
	v, p := doc.Get(key)
	if !p {
		return "", false, true
	}
	s, isStr := document.AsString(v)
	if !isStr {
		return "", true, false
	}
	return s, true, true
}

// readString reads an optional string field. Any shape mismatch yields
// the empty string.
func readString(doc document.Document, key string) string {
	s, _ := doc.GetString(key)
	return s
}

// readDate reads an optional date field, dropping values that are not
// lexically valid dates.
func readDate(doc document.Document, key string) string {
	s, ok := doc.GetString(key)
	if !ok || !primitive.IsValidDate(s) {
		return ""
	}
	return s
}

func readBool(doc document.Document, key string) *bool {
	b, ok := doc.GetBool(key)
	if !ok {
		return nil
	}
	return &b
}

func readReference(doc document.Document, key string) *datatype.Reference {
	v, present := doc.Get(key)
	if !present {
		return nil
	}
	ref, ok := datatype.ParseReference(v)
	if !ok {
		return nil
	}
	return ref
}

func readConcept(doc document.Document, key string) *datatype.CodeableConcept {
	v, present := doc.Get(key)
	if !present {
		return nil
	}
	cc, ok := datatype.ParseCodeableConcept(v)
	if !ok {
		return nil
	}
	return cc
}

func readPeriod(doc document.Document, key string) *datatype.Period {
	v, present := doc.Get(key)
	if !present {
		return nil
	}
	p, ok := datatype.ParsePeriod(v)
	if !ok {
		return nil
	}
	return p
}

func readQuantity(doc document.Document, key string) *datatype.Quantity {
	v, present := doc.Get(key)
	if !present {
		return nil
	}
	q, ok := datatype.ParseQuantity(v)
	if !ok {
		return nil
	}
	return q
}

// readConceptList parses an array of codeable concepts, skipping
// elements that are not well-formed objects.
func readConceptList(doc document.Document, key string) []datatype.CodeableConcept {
	arr, ok := doc.GetArray(key)
	if !ok {
		return nil
	}
	var out []datatype.CodeableConcept
	for _, el := range arr {
		if cc, ok := datatype.ParseCodeableConcept(el); ok {
			out = append(out, *cc)
		}
	}
	return out
}

func conceptListValue(list []datatype.CodeableConcept) []any {
	if len(list) == 0 {
		return nil
	}
	out := make([]any, 0, len(list))
	for i := range list {
		out = append(out, list[i].Document())
	}
	return out
}

func cloneConceptList(list []datatype.CodeableConcept) []datatype.CodeableConcept {
	if list == nil {
		return nil
	}
	out := make([]datatype.CodeableConcept, 0, len(list))
	for i := range list {
		out = append(out, *list[i].Clone())
	}
	return out
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func cloneReference(r *datatype.Reference) *datatype.Reference {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}

func cloneConcept(cc *datatype.CodeableConcept) *datatype.CodeableConcept {
	if cc == nil {
		return nil
	}
	return cc.Clone()
}

func clonePeriod(p *datatype.Period) *datatype.Period {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneQuantity(q *datatype.Quantity) *datatype.Quantity {
	if q == nil {
		return nil
	}
	v := *q
	return &v
}

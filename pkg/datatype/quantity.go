package datatype

import (
	"github.com/shopspring/decimal"

	"github.com/gofhir/fhircore/pkg/document"
)

// Quantity is a measured amount: a decimal value with unit and coding.
type Quantity struct {
	Value      decimal.Decimal
	Comparator string
	Unit       string
	System     string
	Code       string
}

// NewQuantity creates a Quantity with the given value and unit coding.
func NewQuantity(value decimal.Decimal, unit, system, code string) *Quantity {
	return &Quantity{Value: value, Unit: unit, System: system, Code: code}
}

// ParseQuantity reads a Quantity from an object-shaped document node.
// A Quantity without a numeric value field fails as a whole.
func ParseQuantity(v any) (*Quantity, bool) {
	obj, ok := document.AsObject(v)
	if !ok {
		return nil, false
	}

	value, ok := obj.GetDecimal("value")
	if !ok {
		return nil, false
	}

	q := &Quantity{Value: value}
	q.Comparator, _ = obj.GetString("comparator")
	q.Unit, _ = obj.GetString("unit")
	q.System, _ = obj.GetString("system")
	q.Code, _ = obj.GetString("code")
	return q, true
}

// Document renders the Quantity. The value is always emitted; the
// remaining fields only when populated.
func (q *Quantity) Document() document.Document {
	d := document.New()
	d.SetDecimal("value", q.Value)
	d.SetString("comparator", q.Comparator)
	d.SetString("unit", q.Unit)
	d.SetString("system", q.System)
	d.SetString("code", q.Code)
	return d
}

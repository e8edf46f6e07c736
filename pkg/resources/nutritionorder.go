package resources

import (
	"github.com/gofhir/fhircore/pkg/datatype"
	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/resource"
)

// NutritionOrder is a request for a diet, supplement or enteral feeding
// for a subject.
type NutritionOrder struct {
	resource.Base

	Status   RequestStatus
	Intent   RequestIntent
	Subject  *datatype.Reference
	DateTime string
}

// NewNutritionOrder builds an order in draft status with order intent.
// Subject is required for the order to validate.
func NewNutritionOrder(id string) (*NutritionOrder, error) {
	base, err := resource.NewBase(resource.KindNutritionOrder, id)
	if err != nil {
		return nil, err
	}
	return &NutritionOrder{
		Base:   base,
		Status: RequestStatusDraft,
		Intent: RequestIntentOrder,
	}, nil
}

// SetStatus transitions the order's lifecycle status.
func (no *NutritionOrder) SetStatus(s RequestStatus) bool {
	if !s.Valid() {
		return false
	}
	no.Status = s
	return true
}

// SetIntent records the degree of authority behind the order.
func (no *NutritionOrder) SetIntent(i RequestIntent) bool {
	if !i.Valid() {
		return false
	}
	no.Intent = i
	return true
}

// Validate requires a subject.
func (no *NutritionOrder) Validate() bool {
	return no.Subject != nil
}

func (no *NutritionOrder) Document() document.Document {
	d := no.DocumentBase()
	d.SetString("status", no.Status.String())
	d.SetString("intent", no.Intent.String())
	if no.Subject != nil {
		d.Set("subject", no.Subject.Document())
	}
	d.SetString("dateTime", no.DateTime)
	return d
}

func (no *NutritionOrder) Populate(doc document.Document) bool {
	next := *no
	if !next.PopulateBase(doc) {
		return false
	}

	code, present, ok := readCode(doc, "status")
	if !ok {
		return false
	}
	next.Status = RequestStatusDraft
	if present {
		if s, ok := RequestStatusFromString(code); ok {
			next.Status = s
		} else {
			next.Status = RequestStatusUnknown
		}
	}

	code, present, ok = readCode(doc, "intent")
	if !ok {
		return false
	}
	next.Intent = RequestIntentOrder
	if present {
		if i, ok := RequestIntentFromString(code); ok {
			next.Intent = i
		}
	}

	next.Subject = readReference(doc, "subject")
	next.DateTime = readString(doc, "dateTime")

	*no = next
	return true
}

func (no *NutritionOrder) Clone() resource.Resource {
	out := *no
	out.Subject = cloneReference(no.Subject)
	return &out
}

// Label prefers the subject's display, falling back to the kind name.
func (no *NutritionOrder) Label() string {
	if no.Subject != nil && no.Subject.Display != "" {
		return no.Subject.Display
	}
	return no.Kind().String()
}

// IsActive reports whether the order is in active status.
func (no *NutritionOrder) IsActive() bool {
	return no.Status == RequestStatusActive
}

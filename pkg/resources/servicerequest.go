package resources

import (
	"github.com/gofhir/fhircore/pkg/datatype"
	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/resource"
)

// ServiceRequest is an order or proposal for a procedure, diagnostic or
// other service to be performed for a subject.
type ServiceRequest struct {
	resource.Base

	Status   RequestStatus
	Intent   RequestIntent
	Code     *datatype.CodeableConcept
	Subject  *datatype.Reference
	Quantity *datatype.Quantity
	Category []datatype.CodeableConcept
}

// NewServiceRequest builds a request in draft status with order intent.
// Subject is required for the request to validate.
func NewServiceRequest(id string) (*ServiceRequest, error) {
	base, err := resource.NewBase(resource.KindServiceRequest, id)
	if err != nil {
		return nil, err
	}
	return &ServiceRequest{
		Base:   base,
		Status: RequestStatusDraft,
		Intent: RequestIntentOrder,
	}, nil
}

// SetStatus transitions the request's lifecycle status.
func (sr *ServiceRequest) SetStatus(s RequestStatus) bool {
	if !s.Valid() {
		return false
	}
	sr.Status = s
	return true
}

// SetIntent records the degree of authority behind the request.
func (sr *ServiceRequest) SetIntent(i RequestIntent) bool {
	if !i.Valid() {
		return false
	}
	sr.Intent = i
	return true
}

// Validate requires a subject.
func (sr *ServiceRequest) Validate() bool {
	return sr.Subject != nil
}

func (sr *ServiceRequest) Document() document.Document {
	d := sr.DocumentBase()
	d.SetString("status", sr.Status.String())
	d.SetString("intent", sr.Intent.String())
	if sr.Code != nil {
		d.Set("code", sr.Code.Document())
	}
	if sr.Subject != nil {
		d.Set("subject", sr.Subject.Document())
	}
	if sr.Quantity != nil {
		d.Set("quantityQuantity", sr.Quantity.Document())
	}
	d.SetArray("category", conceptListValue(sr.Category))
	return d
}

func (sr *ServiceRequest) Populate(doc document.Document) bool {
	next := *sr
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

	next.Code = readConcept(doc, "code")
	next.Subject = readReference(doc, "subject")
	next.Quantity = readQuantity(doc, "quantityQuantity")
	next.Category = readConceptList(doc, "category")

	*sr = next
	return true
}

func (sr *ServiceRequest) Clone() resource.Resource {
	out := *sr
	out.Code = cloneConcept(sr.Code)
	out.Subject = cloneReference(sr.Subject)
	out.Quantity = cloneQuantity(sr.Quantity)
	out.Category = cloneConceptList(sr.Category)
	return &out
}

// Label prefers the requested service's text or first display, falling
// back to the kind name.
func (sr *ServiceRequest) Label() string {
	if sr.Code != nil {
		if sr.Code.Text != "" {
			return sr.Code.Text
		}
		for i := range sr.Code.Coding {
			if d := sr.Code.Coding[i].Display; d != "" {
				return d
			}
		}
	}
	return sr.Kind().String()
}

// IsActive reports whether the request is in active status.
func (sr *ServiceRequest) IsActive() bool {
	return sr.Status == RequestStatusActive
}

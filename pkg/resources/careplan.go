package resources

import (
	"github.com/gofhir/fhircore/pkg/datatype"
	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/resource"
)

// CarePlan describes intended care activities for a patient over a
// period of time.
type CarePlan struct {
	resource.Base

	Status      RequestStatus
	Intent      RequestIntent
	Title       string
	Description string
	Subject     *datatype.Reference
	Period      *datatype.Period
	Category    []datatype.CodeableConcept
}

// NewCarePlan builds a care plan in draft status with plan intent.
func NewCarePlan(id string) (*CarePlan, error) {
	base, err := resource.NewBase(resource.KindCarePlan, id)
	if err != nil {
		return nil, err
	}
	return &CarePlan{
		Base:   base,
		Status: RequestStatusDraft,
		Intent: RequestIntentPlan,
	}, nil
}

// SetStatus transitions the plan's lifecycle status.
func (cp *CarePlan) SetStatus(s RequestStatus) bool {
	if !s.Valid() {
		return false
	}
	cp.Status = s
	return true
}

// SetIntent records the degree of authority behind the plan.
func (cp *CarePlan) SetIntent(i RequestIntent) bool {
	if !i.Valid() {
		return false
	}
	cp.Intent = i
	return true
}

// AddCategory appends a classification concept.
func (cp *CarePlan) AddCategory(cc datatype.CodeableConcept) {
	cp.Category = append(cp.Category, cc)
}

// Validate always succeeds: status and intent carry defaults, and the
// remaining fields are optional.
func (cp *CarePlan) Validate() bool {
	return true
}

func (cp *CarePlan) Document() document.Document {
	d := cp.DocumentBase()
	d.SetString("status", cp.Status.String())
	d.SetString("intent", cp.Intent.String())
	d.SetString("title", cp.Title)
	d.SetString("description", cp.Description)
	if cp.Subject != nil {
		d.Set("subject", cp.Subject.Document())
	}
	if cp.Period != nil {
		d.Set("period", cp.Period.Document())
	}
	d.SetArray("category", conceptListValue(cp.Category))
	return d
}

func (cp *CarePlan) Populate(doc document.Document) bool {
	next := *cp
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
	next.Intent = RequestIntentPlan
	if present {
		if i, ok := RequestIntentFromString(code); ok {
			next.Intent = i
		}
	}

	next.Title = readString(doc, "title")
	next.Description = readString(doc, "description")
	next.Subject = readReference(doc, "subject")
	next.Period = readPeriod(doc, "period")
	next.Category = readConceptList(doc, "category")

	*cp = next
	return true
}

func (cp *CarePlan) Clone() resource.Resource {
	out := *cp
	out.Subject = cloneReference(cp.Subject)
	out.Period = clonePeriod(cp.Period)
	out.Category = cloneConceptList(cp.Category)
	return &out
}

// Label prefers the plan title, falling back to the kind name.
func (cp *CarePlan) Label() string {
	if cp.Title != "" {
		return cp.Title
	}
	return cp.Kind().String()
}

// IsActive reports whether the plan is in active status.
func (cp *CarePlan) IsActive() bool {
	return cp.Status == RequestStatusActive
}

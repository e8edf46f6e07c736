package resources

import (
	"github.com/gofhir/fhircore/pkg/datatype"
	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/resource"
)

// PractitionerRole binds a practitioner to the roles and specialties
// they hold at an organization.
type PractitionerRole struct {
	resource.Base

	Active       *bool
	Practitioner *datatype.Reference
	Organization *datatype.Reference
	Code         []datatype.CodeableConcept
	Specialty    []datatype.CodeableConcept
	Period       *datatype.Period
}

// NewPractitionerRole builds a role marked active.
func NewPractitionerRole(id string) (*PractitionerRole, error) {
	base, err := resource.NewBase(resource.KindPractitionerRole, id)
	if err != nil {
		return nil, err
	}
	active := true
	return &PractitionerRole{Base: base, Active: &active}, nil
}

// SetActive records whether the role is currently held.
func (pr *PractitionerRole) SetActive(active bool) {
	pr.Active = &active
}

// AddCode appends a role concept.
func (pr *PractitionerRole) AddCode(cc datatype.CodeableConcept) {
	pr.Code = append(pr.Code, cc)
}

// AddSpecialty appends a specialty concept.
func (pr *PractitionerRole) AddSpecialty(cc datatype.CodeableConcept) {
	pr.Specialty = append(pr.Specialty, cc)
}

// Validate always succeeds: every field beyond the id is optional.
func (pr *PractitionerRole) Validate() bool {
	return true
}

func (pr *PractitionerRole) Document() document.Document {
	d := pr.DocumentBase()
	if pr.Active != nil {
		d.SetBool("active", *pr.Active)
	}
	if pr.Practitioner != nil {
		d.Set("practitioner", pr.Practitioner.Document())
	}
	if pr.Organization != nil {
		d.Set("organization", pr.Organization.Document())
	}
	d.SetArray("code", conceptListValue(pr.Code))
	d.SetArray("specialty", conceptListValue(pr.Specialty))
	if pr.Period != nil {
		d.Set("period", pr.Period.Document())
	}
	return d
}

func (pr *PractitionerRole) Populate(doc document.Document) bool {
	next := *pr
	if !next.PopulateBase(doc) {
		return false
	}

	next.Active = readBool(doc, "active")
	next.Practitioner = readReference(doc, "practitioner")
	next.Organization = readReference(doc, "organization")
	next.Code = readConceptList(doc, "code")
	next.Specialty = readConceptList(doc, "specialty")
	next.Period = readPeriod(doc, "period")

	*pr = next
	return true
}

func (pr *PractitionerRole) Clone() resource.Resource {
	out := *pr
	out.Active = cloneBool(pr.Active)
	out.Practitioner = cloneReference(pr.Practitioner)
	out.Organization = cloneReference(pr.Organization)
	out.Code = cloneConceptList(pr.Code)
	out.Specialty = cloneConceptList(pr.Specialty)
	out.Period = clonePeriod(pr.Period)
	return &out
}

// Label prefers the practitioner's display, then the first role text,
// falling back to the kind name.
func (pr *PractitionerRole) Label() string {
	if pr.Practitioner != nil && pr.Practitioner.Display != "" {
		return pr.Practitioner.Display
	}
	for i := range pr.Code {
		if pr.Code[i].Text != "" {
			return pr.Code[i].Text
		}
	}
	return pr.Kind().String()
}

// IsActive reports whether the role is explicitly marked active.
func (pr *PractitionerRole) IsActive() bool {
	return pr.Active != nil && *pr.Active
}

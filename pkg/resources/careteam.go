package resources

import (
	"github.com/gofhir/fhircore/pkg/datatype"
	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/resource"
)

// CareTeamStatus is the lifecycle status of a care team.
type CareTeamStatus int

const (
	CareTeamStatusProposed CareTeamStatus = iota
	CareTeamStatusActive
	CareTeamStatusSuspended
	CareTeamStatusInactive
	CareTeamStatusEnteredInError
)

var careTeamStatusNames = [...]string{
	"proposed",
	"active",
	"suspended",
	"inactive",
	"entered-in-error",
}

func (s CareTeamStatus) String() string {
	if s < 0 || int(s) >= len(careTeamStatusNames) {
		return ""
	}
	return careTeamStatusNames[s]
}

func (s CareTeamStatus) Valid() bool {
	return s >= 0 && int(s) < len(careTeamStatusNames)
}

// CareTeamStatusFromString maps a status code to its enum value.
func CareTeamStatusFromString(code string) (CareTeamStatus, bool) {
	for i, name := range careTeamStatusNames {
		if name == code {
			return CareTeamStatus(i), true
		}
	}
	return CareTeamStatusProposed, false
}

// CareTeam groups the practitioners and organizations participating in
// the care of a subject.
type CareTeam struct {
	resource.Base

	Status   CareTeamStatus
	Name     string
	Subject  *datatype.Reference
	Category []datatype.CodeableConcept
	Period   *datatype.Period
}

// NewCareTeam builds a care team in proposed status.
func NewCareTeam(id string) (*CareTeam, error) {
	base, err := resource.NewBase(resource.KindCareTeam, id)
	if err != nil {
		return nil, err
	}
	return &CareTeam{Base: base, Status: CareTeamStatusProposed}, nil
}

// SetStatus transitions the team's lifecycle status.
func (ct *CareTeam) SetStatus(s CareTeamStatus) bool {
	if !s.Valid() {
		return false
	}
	ct.Status = s
	return true
}

// Validate always succeeds: every field beyond the id is optional.
func (ct *CareTeam) Validate() bool {
	return true
}

func (ct *CareTeam) Document() document.Document {
	d := ct.DocumentBase()
	d.SetString("status", ct.Status.String())
	d.SetString("name", ct.Name)
	if ct.Subject != nil {
		d.Set("subject", ct.Subject.Document())
	}
	d.SetArray("category", conceptListValue(ct.Category))
	if ct.Period != nil {
		d.Set("period", ct.Period.Document())
	}
	return d
}

func (ct *CareTeam) Populate(doc document.Document) bool {
	next := *ct
	if !next.PopulateBase(doc) {
		return false
	}

	code, present, ok := readCode(doc, "status")
	if !ok {
		return false
	}
	next.Status = CareTeamStatusProposed
	if present {
		if s, ok := CareTeamStatusFromString(code); ok {
			next.Status = s
		}
	}

	next.Name = readString(doc, "name")
	next.Subject = readReference(doc, "subject")
	next.Category = readConceptList(doc, "category")
	next.Period = readPeriod(doc, "period")

	*ct = next
	return true
}

func (ct *CareTeam) Clone() resource.Resource {
	out := *ct
	out.Subject = cloneReference(ct.Subject)
	out.Category = cloneConceptList(ct.Category)
	out.Period = clonePeriod(ct.Period)
	return &out
}

// Label prefers the team name, falling back to the kind name.
func (ct *CareTeam) Label() string {
	if ct.Name != "" {
		return ct.Name
	}
	return ct.Kind().String()
}

// IsActive reports whether the team is in active status.
func (ct *CareTeam) IsActive() bool {
	return ct.Status == CareTeamStatusActive
}

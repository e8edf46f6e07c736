package resources

import (
	"github.com/gofhir/fhircore/pkg/datatype"
	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/primitive"
	"github.com/gofhir/fhircore/pkg/resource"
)

// Gender is the administrative gender code carried by Patient.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
	GenderOther
)

var genderNames = [...]string{
	"unknown",
	"male",
	"female",
	"other",
}

func (g Gender) String() string {
	if g < 0 || int(g) >= len(genderNames) {
		return ""
	}
	return genderNames[g]
}

// GenderFromString maps a gender code to its enum value. Unrecognized
// codes map to GenderUnknown with ok=false.
func GenderFromString(code string) (Gender, bool) {
	for i, name := range genderNames {
		if name == code {
			return Gender(i), true
		}
	}
	return GenderUnknown, false
}

// Patient is the demographic record for the person receiving care.
type Patient struct {
	resource.Base

	Active     *bool
	Gender     Gender
	BirthDate  string
	Deceased   *bool
	Name       []datatype.HumanName
	Identifier []datatype.Identifier
}

// NewPatient builds an empty patient with the given id.
func NewPatient(id string) (*Patient, error) {
	base, err := resource.NewBase(resource.KindPatient, id)
	if err != nil {
		return nil, err
	}
	return &Patient{Base: base}, nil
}

// SetActive records whether the patient record is in active use.
func (p *Patient) SetActive(active bool) {
	p.Active = &active
}

// SetBirthDate stores the date of birth. Values that are not lexically
// valid dates are rejected.
func (p *Patient) SetBirthDate(date string) bool {
	if !primitive.IsValidDate(date) {
		return false
	}
	p.BirthDate = date
	return true
}

// SetDeceased records whether the patient is known to be deceased.
func (p *Patient) SetDeceased(deceased bool) {
	p.Deceased = &deceased
}

// AddName appends a name to the patient's name list.
func (p *Patient) AddName(n datatype.HumanName) {
	p.Name = append(p.Name, n)
}

// AddIdentifier appends a business identifier.
func (p *Patient) AddIdentifier(id datatype.Identifier) {
	p.Identifier = append(p.Identifier, id)
}

// IsDeceased reports whether the patient is recorded as deceased.
// Unrecorded means not deceased.
func (p *Patient) IsDeceased() bool {
	return p.Deceased != nil && *p.Deceased
}

// Validate always succeeds: Patient has no required fields beyond the id,
// and the birth date is validated at set time.
func (p *Patient) Validate() bool {
	return true
}

func (p *Patient) Document() document.Document {
	d := p.DocumentBase()
	if p.Active != nil {
		d.SetBool("active", *p.Active)
	}
	if p.Gender != GenderUnknown {
		d.SetString("gender", p.Gender.String())
	}
	d.SetString("birthDate", p.BirthDate)
	if p.Deceased != nil {
		d.SetBool("deceasedBoolean", *p.Deceased)
	}
	if len(p.Name) > 0 {
		names := make([]any, 0, len(p.Name))
		for i := range p.Name {
			names = append(names, p.Name[i].Document())
		}
		d.SetArray("name", names)
	}
	if len(p.Identifier) > 0 {
		ids := make([]any, 0, len(p.Identifier))
		for i := range p.Identifier {
			ids = append(ids, p.Identifier[i].Document())
		}
		d.SetArray("identifier", ids)
	}
	return d
}

func (p *Patient) Populate(doc document.Document) bool {
	next := *p
	if !next.PopulateBase(doc) {
		return false
	}

	code, present, ok := readCode(doc, "gender")
	if !ok {
		return false
	}
	next.Gender = GenderUnknown
	if present {
		next.Gender, _ = GenderFromString(code)
	}

	next.Active = readBool(doc, "active")
	next.Deceased = readBool(doc, "deceasedBoolean")
	next.BirthDate = readDate(doc, "birthDate")

	next.Name = nil
	if arr, ok := doc.GetArray("name"); ok {
		for _, el := range arr {
			if n, ok := datatype.ParseHumanName(el); ok {
				next.Name = append(next.Name, *n)
			}
		}
	}
	next.Identifier = nil
	if arr, ok := doc.GetArray("identifier"); ok {
		for _, el := range arr {
			if id, ok := datatype.ParseIdentifier(el); ok {
				next.Identifier = append(next.Identifier, *id)
			}
		}
	}

	*p = next
	return true
}

func (p *Patient) Clone() resource.Resource {
	out := *p
	out.Active = cloneBool(p.Active)
	out.Deceased = cloneBool(p.Deceased)
	if p.Name != nil {
		out.Name = make([]datatype.HumanName, 0, len(p.Name))
		for i := range p.Name {
			out.Name = append(out.Name, *p.Name[i].Clone())
		}
	}
	if p.Identifier != nil {
		out.Identifier = append([]datatype.Identifier(nil), p.Identifier...)
	}
	return &out
}

// Label prefers the first recorded name, falling back to the kind name.
func (p *Patient) Label() string {
	for i := range p.Name {
		if s := p.Name[i].Display(); s != "" {
			return s
		}
	}
	return p.Kind().String()
}

// IsActive reports whether the record is explicitly marked active.
func (p *Patient) IsActive() bool {
	return p.Active != nil && *p.Active
}

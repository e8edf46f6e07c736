package resources

import (
	"github.com/shopspring/decimal"

	"github.com/gofhir/fhircore/pkg/datatype"
	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/resource"
)

// VisionStatus is the lifecycle status of a vision prescription.
type VisionStatus int

const (
	VisionStatusDraft VisionStatus = iota
	VisionStatusActive
	VisionStatusCancelled
	VisionStatusEnteredInError
)

var visionStatusNames = [...]string{
	"draft",
	"active",
	"cancelled",
	"entered-in-error",
}

func (s VisionStatus) String() string {
	if s < 0 || int(s) >= len(visionStatusNames) {
		return ""
	}
	return visionStatusNames[s]
}

func (s VisionStatus) Valid() bool {
	return s >= 0 && int(s) < len(visionStatusNames)
}

// VisionStatusFromString maps a status code to its enum value.
func VisionStatusFromString(code string) (VisionStatus, bool) {
	for i, name := range visionStatusNames {
		if name == code {
			return VisionStatus(i), true
		}
	}
	return VisionStatusDraft, false
}

// LensSpecification is the corrective power prescribed for one eye.
type LensSpecification struct {
	Eye      string
	Sphere   *decimal.Decimal
	Cylinder *decimal.Decimal
	Add      *decimal.Decimal
}

func (ls *LensSpecification) Document() document.Document {
	d := document.New()
	d.SetString("eye", ls.Eye)
	if ls.Sphere != nil {
		d.SetDecimal("sphere", *ls.Sphere)
	}
	if ls.Cylinder != nil {
		d.SetDecimal("cylinder", *ls.Cylinder)
	}
	if ls.Add != nil {
		d.SetDecimal("add", *ls.Add)
	}
	return d
}

// VisionPrescription authorizes the supply of corrective lenses for a
// patient.
type VisionPrescription struct {
	resource.Base

	Status            VisionStatus
	Created           string
	Patient           *datatype.Reference
	Prescriber        *datatype.Reference
	LensSpecification []LensSpecification
}

// NewVisionPrescription builds a prescription in draft status. Patient
// is required for the prescription to validate.
func NewVisionPrescription(id string) (*VisionPrescription, error) {
	base, err := resource.NewBase(resource.KindVisionPrescription, id)
	if err != nil {
		return nil, err
	}
	return &VisionPrescription{Base: base, Status: VisionStatusDraft}, nil
}

// SetStatus transitions the prescription's lifecycle status.
func (vp *VisionPrescription) SetStatus(s VisionStatus) bool {
	if !s.Valid() {
		return false
	}
	vp.Status = s
	return true
}

// AddLensSpecification appends a per-eye lens specification.
func (vp *VisionPrescription) AddLensSpecification(ls LensSpecification) {
	vp.LensSpecification = append(vp.LensSpecification, ls)
}

// Validate requires a patient reference.
func (vp *VisionPrescription) Validate() bool {
	return vp.Patient != nil
}

func (vp *VisionPrescription) Document() document.Document {
	d := vp.DocumentBase()
	d.SetString("status", vp.Status.String())
	d.SetString("created", vp.Created)
	if vp.Patient != nil {
		d.Set("patient", vp.Patient.Document())
	}
	if vp.Prescriber != nil {
		d.Set("prescriber", vp.Prescriber.Document())
	}
	if len(vp.LensSpecification) > 0 {
		specs := make([]any, 0, len(vp.LensSpecification))
		for i := range vp.LensSpecification {
			specs = append(specs, vp.LensSpecification[i].Document())
		}
		d.SetArray("lensSpecification", specs)
	}
	return d
}

func (vp *VisionPrescription) Populate(doc document.Document) bool {
	next := *vp
	if !next.PopulateBase(doc) {
		return false
	}

	code, present, ok := readCode(doc, "status")
	if !ok {
		return false
	}
	next.Status = VisionStatusDraft
	if present {
		if s, ok := VisionStatusFromString(code); ok {
			next.Status = s
		}
	}

	next.Created = readString(doc, "created")
	next.Patient = readReference(doc, "patient")
	next.Prescriber = readReference(doc, "prescriber")

	next.LensSpecification = nil
	if arr, ok := doc.GetArray("lensSpecification"); ok {
		for _, el := range arr {
			obj, ok := document.AsObject(el)
			if !ok {
				continue
			}
			var ls LensSpecification
			ls.Eye, _ = obj.GetString("eye")
			if v, ok := obj.GetDecimal("sphere"); ok {
				ls.Sphere = &v
			}
			if v, ok := obj.GetDecimal("cylinder"); ok {
				ls.Cylinder = &v
			}
			if v, ok := obj.GetDecimal("add"); ok {
				ls.Add = &v
			}
			next.LensSpecification = append(next.LensSpecification, ls)
		}
	}

	*vp = next
	return true
}

func (vp *VisionPrescription) Clone() resource.Resource {
	out := *vp
	out.Patient = cloneReference(vp.Patient)
	out.Prescriber = cloneReference(vp.Prescriber)
	if vp.LensSpecification != nil {
		out.LensSpecification = make([]LensSpecification, 0, len(vp.LensSpecification))
		for i := range vp.LensSpecification {
			ls := vp.LensSpecification[i]
			out.LensSpecification = append(out.LensSpecification, LensSpecification{
				Eye:      ls.Eye,
				Sphere:   cloneDecimal(ls.Sphere),
				Cylinder: cloneDecimal(ls.Cylinder),
				Add:      cloneDecimal(ls.Add),
			})
		}
	}
	return &out
}

// Label prefers the patient's display, falling back to the kind name.
func (vp *VisionPrescription) Label() string {
	if vp.Patient != nil && vp.Patient.Display != "" {
		return vp.Patient.Display
	}
	return vp.Kind().String()
}

// IsActive reports whether the prescription is in active status.
func (vp *VisionPrescription) IsActive() bool {
	return vp.Status == VisionStatusActive
}

package resources

import (
	"github.com/shopspring/decimal"

	"github.com/gofhir/fhircore/pkg/datatype"
	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/resource"
)

// RiskAssessmentStatus is the workflow status of an assessment.
type RiskAssessmentStatus int

const (
	RiskAssessmentStatusRegistered RiskAssessmentStatus = iota
	RiskAssessmentStatusPreliminary
	RiskAssessmentStatusFinal
	RiskAssessmentStatusAmended
	RiskAssessmentStatusCorrected
	RiskAssessmentStatusCancelled
	RiskAssessmentStatusEnteredInError
)

var riskAssessmentStatusNames = [...]string{
	"registered",
	"preliminary",
	"final",
	"amended",
	"corrected",
	"cancelled",
	"entered-in-error",
}

func (s RiskAssessmentStatus) String() string {
	if s < 0 || int(s) >= len(riskAssessmentStatusNames) {
		return ""
	}
	return riskAssessmentStatusNames[s]
}

func (s RiskAssessmentStatus) Valid() bool {
	return s >= 0 && int(s) < len(riskAssessmentStatusNames)
}

// RiskAssessmentStatusFromString maps a status code to its enum value.
func RiskAssessmentStatusFromString(code string) (RiskAssessmentStatus, bool) {
	for i, name := range riskAssessmentStatusNames {
		if name == code {
			return RiskAssessmentStatus(i), true
		}
	}
	return RiskAssessmentStatusRegistered, false
}

// RiskPrediction is one predicted outcome with an optional probability
// in [0, 1].
type RiskPrediction struct {
	Outcome     *datatype.CodeableConcept
	Probability *decimal.Decimal
}

func (rp *RiskPrediction) Document() document.Document {
	d := document.New()
	if rp.Outcome != nil {
		d.Set("outcome", rp.Outcome.Document())
	}
	if rp.Probability != nil {
		d.SetDecimal("probabilityDecimal", *rp.Probability)
	}
	return d
}

// RiskAssessment is a predicted-outcome assessment for a subject.
type RiskAssessment struct {
	resource.Base

	Status     RiskAssessmentStatus
	Subject    *datatype.Reference
	Method     *datatype.CodeableConcept
	Prediction []RiskPrediction
}

// NewRiskAssessment builds an assessment in registered status. Subject
// is required for the assessment to validate.
func NewRiskAssessment(id string) (*RiskAssessment, error) {
	base, err := resource.NewBase(resource.KindRiskAssessment, id)
	if err != nil {
		return nil, err
	}
	return &RiskAssessment{Base: base, Status: RiskAssessmentStatusRegistered}, nil
}

// SetStatus transitions the assessment's workflow status.
func (ra *RiskAssessment) SetStatus(s RiskAssessmentStatus) bool {
	if !s.Valid() {
		return false
	}
	ra.Status = s
	return true
}

// AddPrediction appends a predicted outcome. Probabilities outside
// [0, 1] are rejected.
func (ra *RiskAssessment) AddPrediction(p RiskPrediction) bool {
	if p.Probability != nil {
		if p.Probability.IsNegative() || p.Probability.GreaterThan(decimal.NewFromInt(1)) {
			return false
		}
	}
	ra.Prediction = append(ra.Prediction, p)
	return true
}

// HighestProbability returns the largest recorded probability across
// predictions. ok is false when no prediction carries one.
func (ra *RiskAssessment) HighestProbability() (decimal.Decimal, bool) {
	var max decimal.Decimal
	found := false
	for i := range ra.Prediction {
		p := ra.Prediction[i].Probability
		if p == nil {
			continue
		}
		if !found || p.GreaterThan(max) {
			max = *p
			found = true
		}
	}
	return max, found
}

// IsHighRisk reports whether any prediction reaches the threshold.
func (ra *RiskAssessment) IsHighRisk(threshold decimal.Decimal) bool {
	for i := range ra.Prediction {
		p := ra.Prediction[i].Probability
		if p != nil && p.GreaterThanOrEqual(threshold) {
			return true
		}
	}
	return false
}

// Validate requires a subject.
func (ra *RiskAssessment) Validate() bool {
	return ra.Subject != nil
}

func (ra *RiskAssessment) Document() document.Document {
	d := ra.DocumentBase()
	d.SetString("status", ra.Status.String())
	if ra.Subject != nil {
		d.Set("subject", ra.Subject.Document())
	}
	if ra.Method != nil {
		d.Set("method", ra.Method.Document())
	}
	if len(ra.Prediction) > 0 {
		preds := make([]any, 0, len(ra.Prediction))
		for i := range ra.Prediction {
			preds = append(preds, ra.Prediction[i].Document())
		}
		d.SetArray("prediction", preds)
	}
	return d
}

func (ra *RiskAssessment) Populate(doc document.Document) bool {
	next := *ra
	if !next.PopulateBase(doc) {
		return false
	}

	code, present, ok := readCode(doc, "status")
	if !ok {
		return false
	}
	next.Status = RiskAssessmentStatusRegistered
	if present {
		if s, ok := RiskAssessmentStatusFromString(code); ok {
			next.Status = s
		}
	}

	next.Subject = readReference(doc, "subject")
	next.Method = readConcept(doc, "method")

	next.Prediction = nil
	if arr, ok := doc.GetArray("prediction"); ok {
		for _, el := range arr {
			obj, ok := document.AsObject(el)
			if !ok {
				continue
			}
			var p RiskPrediction
			p.Outcome = readConcept(obj, "outcome")
			if v, ok := obj.GetDecimal("probabilityDecimal"); ok {
				p.Probability = &v
			}
			next.Prediction = append(next.Prediction, p)
		}
	}

	*ra = next
	return true
}

func (ra *RiskAssessment) Clone() resource.Resource {
	out := *ra
	out.Subject = cloneReference(ra.Subject)
	out.Method = cloneConcept(ra.Method)
	if ra.Prediction != nil {
		out.Prediction = make([]RiskPrediction, 0, len(ra.Prediction))
		for i := range ra.Prediction {
			out.Prediction = append(out.Prediction, RiskPrediction{
				Outcome:     cloneConcept(ra.Prediction[i].Outcome),
				Probability: cloneDecimal(ra.Prediction[i].Probability),
			})
		}
	}
	return &out
}

// Label prefers the method text, falling back to the kind name.
func (ra *RiskAssessment) Label() string {
	if ra.Method != nil && ra.Method.Text != "" {
		return ra.Method.Text
	}
	return ra.Kind().String()
}

// IsActive reports whether the assessment carries clinical weight:
// preliminary, final, amended or corrected status.
func (ra *RiskAssessment) IsActive() bool {
	switch ra.Status {
	case RiskAssessmentStatusPreliminary, RiskAssessmentStatusFinal,
		RiskAssessmentStatusAmended, RiskAssessmentStatusCorrected:
		return true
	}
	return false
}

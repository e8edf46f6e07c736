package resources

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gofhir/fhircore/pkg/datatype"
	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/resource"
)

func TestPatientRoundTrip(t *testing.T) {
	p, err := NewPatient("pat-1")
	require.NoError(t, err)

	p.SetActive(true)
	p.Gender = GenderFemale
	require.True(t, p.SetBirthDate("1987-04-12"))
	p.SetDeceased(false)
	p.AddName(datatype.HumanName{Use: "official", Family: "Verde", Given: []string{"Ana", "Lucia"}})
	p.AddIdentifier(datatype.Identifier{System: "urn:example:mrn", Value: "44821"})

	doc := p.Document()
	assert.Equal(t, "Patient", doc["resourceType"])
	assert.Equal(t, "pat-1", doc["id"])
	_, hasDeceased := doc["deceasedBoolean"]
	assert.True(t, hasDeceased)

	q, err := NewPatient("placeholder")
	require.NoError(t, err)
	require.True(t, q.Populate(doc))

	assert.Equal(t, "pat-1", q.ID())
	assert.Equal(t, GenderFemale, q.Gender)
	assert.Equal(t, "1987-04-12", q.BirthDate)
	assert.True(t, q.IsActive())
	assert.False(t, q.IsDeceased())
	require.Len(t, q.Name, 1)
	assert.Equal(t, "Ana Lucia Verde", q.Label())
	require.Len(t, q.Identifier, 1)
	assert.Equal(t, "44821", q.Identifier[0].Value)
}

func TestPatientDocumentOmitsUnset(t *testing.T) {
	p, err := NewPatient("pat-2")
	require.NoError(t, err)

	doc := p.Document()
	for _, key := range []string{"active", "gender", "birthDate", "deceasedBoolean", "name", "identifier"} {
		_, present := doc[key]
		assert.False(t, present, "unset field %q should be omitted", key)
	}
}

func TestPatientPopulateBadGenderShape(t *testing.T) {
	p, err := NewPatient("pat-3")
	require.NoError(t, err)
	p.Gender = GenderMale
	require.True(t, p.SetBirthDate("1990-01-01"))

	doc := document.Document{
		"resourceType": "Patient",
		"id":           "pat-3",
		"gender":       float64(5),
	}
	assert.False(t, p.Populate(doc))

	// Failed populate leaves prior state intact.
	assert.Equal(t, GenderMale, p.Gender)
	assert.Equal(t, "1990-01-01", p.BirthDate)
}

func TestPatientPopulateWrongResourceType(t *testing.T) {
	p, err := NewPatient("pat-4")
	require.NoError(t, err)
	doc := document.Document{"resourceType": "CarePlan", "id": "pat-4"}
	assert.False(t, p.Populate(doc))
}

func TestPatientPopulateSkipsBadNames(t *testing.T) {
	p, err := NewPatient("pat-5")
	require.NoError(t, err)

	doc := document.Document{
		"resourceType": "Patient",
		"id":           "pat-5",
		"name": []any{
			map[string]any{"family": "Okafor"},
			"not-a-name",
			map[string]any{"family": "Okafor", "use": "maiden"},
		},
	}
	require.True(t, p.Populate(doc))
	assert.Len(t, p.Name, 2)
}

func TestPatientSetBirthDateRejectsBadDates(t *testing.T) {
	p, err := NewPatient("pat-6")
	require.NoError(t, err)
	for _, bad := range []string{"2023-1-1", "23-01-01", "2023/01/01", "2023-01-01T"} {
		assert.False(t, p.SetBirthDate(bad), "date %q", bad)
	}
	assert.Empty(t, p.BirthDate)
}

func TestPatientCloneIsIndependent(t *testing.T) {
	p, err := NewPatient("pat-7")
	require.NoError(t, err)
	p.SetActive(true)
	p.AddName(datatype.HumanName{Family: "Silva"})

	c := p.Clone().(*Patient)
	c.SetActive(false)
	c.Name[0].Family = "Changed"

	assert.True(t, p.IsActive())
	assert.Equal(t, "Silva", p.Name[0].Family)
	assert.Equal(t, p.ID(), c.ID())
}

func TestNewPatientRejectsInvalidID(t *testing.T) {
	_, err := NewPatient("")
	assert.ErrorIs(t, err, resource.ErrInvalidID)
	_, err = NewPatient("bad id")
	assert.ErrorIs(t, err, resource.ErrInvalidID)
}

func TestCarePlanDefaultsAndStatus(t *testing.T) {
	cp, err := NewCarePlan("cp-1")
	require.NoError(t, err)

	assert.Equal(t, RequestStatusDraft, cp.Status)
	assert.Equal(t, RequestIntentPlan, cp.Intent)
	assert.False(t, cp.IsActive())
	assert.True(t, cp.Validate())

	require.True(t, cp.SetStatus(RequestStatusActive))
	assert.True(t, cp.IsActive())
	assert.False(t, cp.SetStatus(RequestStatus(99)))
	assert.Equal(t, RequestStatusActive, cp.Status)
}

func TestCarePlanRoundTrip(t *testing.T) {
	cp, err := NewCarePlan("cp-2")
	require.NoError(t, err)
	cp.SetStatus(RequestStatusActive)
	cp.SetIntent(RequestIntentOrder)
	cp.Title = "Diabetes management"
	cp.Description = "Quarterly HbA1c monitoring"
	cp.Subject = &datatype.Reference{Reference: "Patient/pat-1", Display: "Ana Verde"}
	cp.Period = &datatype.Period{Start: "2026-01-01", End: "2026-12-31"}
	cp.AddCategory(datatype.CodeableConcept{Text: "assess-plan"})

	doc := cp.Document()
	other, err := NewCarePlan("placeholder")
	require.NoError(t, err)
	require.True(t, other.Populate(doc))

	assert.Equal(t, "cp-2", other.ID())
	assert.Equal(t, RequestStatusActive, other.Status)
	assert.Equal(t, RequestIntentOrder, other.Intent)
	assert.Equal(t, "Diabetes management", other.Label())
	require.NotNil(t, other.Subject)
	assert.Equal(t, "pat-1", other.Subject.TargetID())
	require.NotNil(t, other.Period)
	assert.Equal(t, "2026-01-01", other.Period.Start)
	require.Len(t, other.Category, 1)
}

func TestCarePlanPopulateUnknownStatusCode(t *testing.T) {
	cp, err := NewCarePlan("cp-3")
	require.NoError(t, err)
	doc := document.Document{
		"resourceType": "CarePlan",
		"id":           "cp-3",
		"status":       "galactic",
	}
	require.True(t, cp.Populate(doc))
	assert.Equal(t, RequestStatusUnknown, cp.Status)
}

func TestCarePlanPopulateBadStatusShape(t *testing.T) {
	cp, err := NewCarePlan("cp-4")
	require.NoError(t, err)
	cp.SetStatus(RequestStatusCompleted)

	doc := document.Document{
		"resourceType": "CarePlan",
		"id":           "cp-4",
		"status":       true,
	}
	assert.False(t, cp.Populate(doc))
	assert.Equal(t, RequestStatusCompleted, cp.Status)
}

func TestCareTeamLifecycle(t *testing.T) {
	ct, err := NewCareTeam("team-1")
	require.NoError(t, err)
	assert.Equal(t, CareTeamStatusProposed, ct.Status)
	assert.True(t, ct.Validate())
	assert.False(t, ct.IsActive())

	require.True(t, ct.SetStatus(CareTeamStatusActive))
	assert.True(t, ct.IsActive())

	ct.Name = "Oncology team"
	ct.Subject = &datatype.Reference{Reference: "Patient/pat-1"}
	doc := ct.Document()

	other, err := NewCareTeam("placeholder")
	require.NoError(t, err)
	require.True(t, other.Populate(doc))
	assert.Equal(t, "Oncology team", other.Label())
	assert.Equal(t, "Patient", other.Subject.TargetKindName())
}

func TestGoalValidateRequiresDescriptionAndSubject(t *testing.T) {
	g, err := NewGoal("goal-1")
	require.NoError(t, err)
	assert.False(t, g.Validate())

	g.Description = &datatype.CodeableConcept{Text: "Reduce HbA1c below 7%"}
	assert.False(t, g.Validate())

	g.Subject = &datatype.Reference{Reference: "Patient/pat-1"}
	assert.True(t, g.Validate())
}

func TestGoalRoundTripAndActivity(t *testing.T) {
	g, err := NewGoal("goal-2")
	require.NoError(t, err)
	g.Description = &datatype.CodeableConcept{
		Coding: []datatype.Coding{{System: "http://snomed.info/sct", Code: "401191002", Display: "Weight loss"}},
	}
	g.Subject = &datatype.Reference{Reference: "Patient/pat-1"}
	require.True(t, g.SetLifecycleStatus(GoalStatusActive))
	g.StartDate = "2026-02-01"

	doc := g.Document()
	other, err := NewGoal("placeholder")
	require.NoError(t, err)
	require.True(t, other.Populate(doc))

	assert.True(t, other.IsActive())
	assert.True(t, other.Validate())
	assert.Equal(t, "Weight loss", other.Label())
	assert.Equal(t, "2026-02-01", other.StartDate)

	require.True(t, other.SetLifecycleStatus(GoalStatusCompleted))
	assert.False(t, other.IsActive())
}

func TestServiceRequestRoundTrip(t *testing.T) {
	sr, err := NewServiceRequest("sr-1")
	require.NoError(t, err)
	assert.Equal(t, RequestIntentOrder, sr.Intent)
	assert.False(t, sr.Validate())

	sr.Subject = &datatype.Reference{Reference: "Patient/pat-1"}
	assert.True(t, sr.Validate())

	sr.SetStatus(RequestStatusActive)
	sr.Code = &datatype.CodeableConcept{Text: "CBC panel"}
	qty := decimal.RequireFromString("2")
	sr.Quantity = &datatype.Quantity{Value: qty, Unit: "panels"}

	doc := sr.Document()
	other, err := NewServiceRequest("placeholder")
	require.NoError(t, err)
	require.True(t, other.Populate(doc))

	assert.True(t, other.IsActive())
	assert.Equal(t, "CBC panel", other.Label())
	require.NotNil(t, other.Quantity)
	assert.True(t, other.Quantity.Value.Equal(qty))
}

func TestNutritionOrderRoundTrip(t *testing.T) {
	no, err := NewNutritionOrder("no-1")
	require.NoError(t, err)
	assert.False(t, no.Validate())

	no.Subject = &datatype.Reference{Reference: "Patient/pat-1", Display: "Ana Verde"}
	no.DateTime = "2026-03-15T09:00:00Z"
	no.SetStatus(RequestStatusActive)

	doc := no.Document()
	other, err := NewNutritionOrder("placeholder")
	require.NoError(t, err)
	require.True(t, other.Populate(doc))

	assert.True(t, other.Validate())
	assert.True(t, other.IsActive())
	assert.Equal(t, "Ana Verde", other.Label())
	assert.Equal(t, "2026-03-15T09:00:00Z", other.DateTime)
}

func TestRiskAssessmentPredictions(t *testing.T) {
	ra, err := NewRiskAssessment("risk-1")
	require.NoError(t, err)
	ra.Subject = &datatype.Reference{Reference: "Patient/pat-1"}

	low := decimal.RequireFromString("0.15")
	high := decimal.RequireFromString("0.85")
	require.True(t, ra.AddPrediction(RiskPrediction{
		Outcome:     &datatype.CodeableConcept{Text: "Stroke"},
		Probability: &low,
	}))
	require.True(t, ra.AddPrediction(RiskPrediction{
		Outcome:     &datatype.CodeableConcept{Text: "MI"},
		Probability: &high,
	}))

	over := decimal.RequireFromString("1.5")
	assert.False(t, ra.AddPrediction(RiskPrediction{Probability: &over}))

	max, ok := ra.HighestProbability()
	require.True(t, ok)
	assert.True(t, max.Equal(high))
	assert.True(t, ra.IsHighRisk(decimal.RequireFromString("0.8")))
	assert.False(t, ra.IsHighRisk(decimal.RequireFromString("0.9")))
}

func TestRiskAssessmentRoundTripSkipsBadPredictions(t *testing.T) {
	doc := document.Document{
		"resourceType": "RiskAssessment",
		"id":           "risk-2",
		"status":       "final",
		"subject":      map[string]any{"reference": "Patient/pat-1"},
		"prediction": []any{
			map[string]any{"probabilityDecimal": 0.42, "outcome": map[string]any{"text": "Fall"}},
			"not-an-object",
			map[string]any{"outcome": map[string]any{"text": "Readmission"}},
		},
	}

	ra, err := NewRiskAssessment("placeholder")
	require.NoError(t, err)
	require.True(t, ra.Populate(doc))

	assert.Equal(t, RiskAssessmentStatusFinal, ra.Status)
	assert.True(t, ra.IsActive())
	require.Len(t, ra.Prediction, 2)
	require.NotNil(t, ra.Prediction[0].Probability)
	assert.Nil(t, ra.Prediction[1].Probability)

	_, ok := ra.HighestProbability()
	assert.True(t, ok)
}

func TestRiskAssessmentActivityByStatus(t *testing.T) {
	ra, err := NewRiskAssessment("risk-3")
	require.NoError(t, err)

	active := []RiskAssessmentStatus{
		RiskAssessmentStatusPreliminary,
		RiskAssessmentStatusFinal,
		RiskAssessmentStatusAmended,
		RiskAssessmentStatusCorrected,
	}
	for _, s := range active {
		require.True(t, ra.SetStatus(s))
		assert.True(t, ra.IsActive(), "status %s", s)
	}
	inactive := []RiskAssessmentStatus{
		RiskAssessmentStatusRegistered,
		RiskAssessmentStatusCancelled,
		RiskAssessmentStatusEnteredInError,
	}
	for _, s := range inactive {
		require.True(t, ra.SetStatus(s))
		assert.False(t, ra.IsActive(), "status %s", s)
	}
}

func TestVisionPrescriptionRoundTrip(t *testing.T) {
	vp, err := NewVisionPrescription("vp-1")
	require.NoError(t, err)
	assert.False(t, vp.Validate())

	vp.Patient = &datatype.Reference{Reference: "Patient/pat-1", Display: "Ana Verde"}
	vp.Prescriber = &datatype.Reference{Reference: "PractitionerRole/pr-1"}
	vp.Created = "2026-05-20"
	vp.SetStatus(VisionStatusActive)

	sphere := decimal.RequireFromString("-1.25")
	cyl := decimal.RequireFromString("-0.50")
	vp.AddLensSpecification(LensSpecification{Eye: "right", Sphere: &sphere, Cylinder: &cyl})
	vp.AddLensSpecification(LensSpecification{Eye: "left", Sphere: &sphere})

	doc := vp.Document()
	other, err := NewVisionPrescription("placeholder")
	require.NoError(t, err)
	require.True(t, other.Populate(doc))

	assert.True(t, other.Validate())
	assert.True(t, other.IsActive())
	assert.Equal(t, "Ana Verde", other.Label())
	require.Len(t, other.LensSpecification, 2)
	assert.Equal(t, "right", other.LensSpecification[0].Eye)
	require.NotNil(t, other.LensSpecification[0].Sphere)
	assert.True(t, other.LensSpecification[0].Sphere.Equal(sphere))
	assert.Nil(t, other.LensSpecification[1].Cylinder)
}

func TestPractitionerRoleDefaults(t *testing.T) {
	pr, err := NewPractitionerRole("pr-1")
	require.NoError(t, err)
	assert.True(t, pr.IsActive())
	assert.True(t, pr.Validate())

	pr.Practitioner = &datatype.Reference{Reference: "Practitioner/doc-1", Display: "Dr. Okafor"}
	pr.AddCode(datatype.CodeableConcept{Text: "Attending physician"})
	pr.AddSpecialty(datatype.CodeableConcept{Text: "Cardiology"})

	doc := pr.Document()
	other, err := NewPractitionerRole("placeholder")
	require.NoError(t, err)
	require.True(t, other.Populate(doc))

	assert.Equal(t, "Dr. Okafor", other.Label())
	assert.True(t, other.IsActive())
	require.Len(t, other.Code, 1)
	require.Len(t, other.Specialty, 1)

	other.SetActive(false)
	assert.False(t, other.IsActive())
}

func TestRequestEnumStrings(t *testing.T) {
	for s := RequestStatusDraft; s <= RequestStatusUnknown; s++ {
		name := s.String()
		require.NotEmpty(t, name)
		back, ok := RequestStatusFromString(name)
		require.True(t, ok)
		assert.Equal(t, s, back)
	}
	_, ok := RequestStatusFromString("bogus")
	assert.False(t, ok)

	for i := RequestIntentProposal; i <= RequestIntentOption; i++ {
		name := i.String()
		require.NotEmpty(t, name)
		back, ok := RequestIntentFromString(name)
		require.True(t, ok)
		assert.Equal(t, i, back)
	}

	assert.Empty(t, RequestStatus(-1).String())
	assert.Empty(t, RequestIntent(42).String())
}

func TestGenderStrings(t *testing.T) {
	g, ok := GenderFromString("female")
	require.True(t, ok)
	assert.Equal(t, GenderFemale, g)

	g, ok = GenderFromString("nonbinary")
	assert.False(t, ok)
	assert.Equal(t, GenderUnknown, g)

	assert.Empty(t, Gender(99).String())
}

package resources

import (
	"github.com/gofhir/fhircore/pkg/registry"
	"github.com/gofhir/fhircore/pkg/resource"
)

// Constructor adapters are named functions rather than closures so that
// repeated registration stays idempotent.

func newPatientResource(id string) (resource.Resource, error) {
	return NewPatient(id)
}

func newCarePlanResource(id string) (resource.Resource, error) {
	return NewCarePlan(id)
}

func newCareTeamResource(id string) (resource.Resource, error) {
	return NewCareTeam(id)
}

func newGoalResource(id string) (resource.Resource, error) {
	return NewGoal(id)
}

func newServiceRequestResource(id string) (resource.Resource, error) {
	return NewServiceRequest(id)
}

func newNutritionOrderResource(id string) (resource.Resource, error) {
	return NewNutritionOrder(id)
}

func newRiskAssessmentResource(id string) (resource.Resource, error) {
	return NewRiskAssessment(id)
}

func newVisionPrescriptionResource(id string) (resource.Resource, error) {
	return NewVisionPrescription(id)
}

func newPractitionerRoleResource(id string) (resource.Resource, error) {
	return NewPractitionerRole(id)
}

// RegisterDefaults registers every built-in kind with reg under its
// canonical name.
func RegisterDefaults(reg *registry.Registry) error {
	builtins := []struct {
		kind resource.Kind
		ctor registry.Constructor
	}{
		{resource.KindPatient, newPatientResource},
		{resource.KindCarePlan, newCarePlanResource},
		{resource.KindCareTeam, newCareTeamResource},
		{resource.KindGoal, newGoalResource},
		{resource.KindServiceRequest, newServiceRequestResource},
		{resource.KindNutritionOrder, newNutritionOrderResource},
		{resource.KindRiskAssessment, newRiskAssessmentResource},
		{resource.KindVisionPrescription, newVisionPrescriptionResource},
		{resource.KindPractitionerRole, newPractitionerRoleResource},
	}
	for _, b := range builtins {
		if err := reg.Register(b.kind, b.kind.String(), b.ctor); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	if err := RegisterDefaults(registry.Default()); err != nil {
		panic("resources: registering built-in kinds: " + err.Error())
	}
}

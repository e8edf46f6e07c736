package resource

// Kind identifies which resource variant an instance is.
// The enumeration is closed: every instance carries exactly one Kind,
// fixed at construction.
type Kind int

// Resource kinds.
const (
	KindUnknown Kind = iota
	KindPatient
	KindCarePlan
	KindCareTeam
	KindGoal
	KindServiceRequest
	KindNutritionOrder
	KindRiskAssessment
	KindVisionPrescription
	KindPractitionerRole

	kindCount // sentinel, keep last
)

// kindNames maps each kind to its canonical resourceType name.
// These strings must match the external schema exactly; documents are
// accepted only when resourceType equals the canonical name.
var kindNames = [...]string{
	KindPatient:            "Patient",
	KindCarePlan:           "CarePlan",
	KindCareTeam:           "CareTeam",
	KindGoal:               "Goal",
	KindServiceRequest:     "ServiceRequest",
	KindNutritionOrder:     "NutritionOrder",
	KindRiskAssessment:     "RiskAssessment",
	KindVisionPrescription: "VisionPrescription",
	KindPractitionerRole:   "PractitionerRole",
}

// kindsByName is the reverse index, built once at package init.
var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindUnknown + 1; k < kindCount; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// String returns the canonical resourceType name, or "" for invalid kinds.
func (k Kind) String() string {
	if !k.Valid() {
		return ""
	}
	return kindNames[k]
}

// Valid reports whether k is a member of the closed enumeration.
func (k Kind) Valid() bool {
	return k > KindUnknown && k < kindCount
}

// KindFromName resolves a canonical name to its Kind.
// The comparison is case-sensitive; unknown names yield KindUnknown.
func KindFromName(name string) Kind {
	return kindsByName[name]
}

// Kinds returns all valid kinds in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindUnknown + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

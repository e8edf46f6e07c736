package resources

// RequestStatus is the lifecycle status shared by the request-shaped
// kinds (CarePlan, ServiceRequest, NutritionOrder).
type RequestStatus int

const (
	RequestStatusDraft RequestStatus = iota
	RequestStatusActive
	RequestStatusOnHold
	RequestStatusRevoked
	RequestStatusCompleted
	RequestStatusEnteredInError
	RequestStatusUnknown
)

var requestStatusNames = [...]string{
	"draft",
	"active",
	"on-hold",
	"revoked",
	"completed",
	"entered-in-error",
	"unknown",
}

func (s RequestStatus) String() string {
	if s < 0 || int(s) >= len(requestStatusNames) {
		return ""
	}
	return requestStatusNames[s]
}

// Valid reports whether s is one of the defined status values.
func (s RequestStatus) Valid() bool {
	return s >= 0 && int(s) < len(requestStatusNames)
}

// RequestStatusFromString maps a status code to its enum value.
// Unrecognized codes map to RequestStatusUnknown with ok=false.
func RequestStatusFromString(code string) (RequestStatus, bool) {
	for i, name := range requestStatusNames {
		if name == code {
			return RequestStatus(i), true
		}
	}
	return RequestStatusUnknown, false
}

// RequestIntent distinguishes proposals from actionable orders.
type RequestIntent int

const (
	RequestIntentProposal RequestIntent = iota
	RequestIntentPlan
	RequestIntentDirective
	RequestIntentOrder
	RequestIntentOption
)

var requestIntentNames = [...]string{
	"proposal",
	"plan",
	"directive",
	"order",
	"option",
}

func (i RequestIntent) String() string {
	if i < 0 || int(i) >= len(requestIntentNames) {
		return ""
	}
	return requestIntentNames[i]
}

func (i RequestIntent) Valid() bool {
	return i >= 0 && int(i) < len(requestIntentNames)
}

// RequestIntentFromString maps an intent code to its enum value.
func RequestIntentFromString(code string) (RequestIntent, bool) {
	for i, name := range requestIntentNames {
		if name == code {
			return RequestIntent(i), true
		}
	}
	return RequestIntentProposal, false
}

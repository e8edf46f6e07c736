package resources

import (
	"github.com/gofhir/fhircore/pkg/datatype"
	"github.com/gofhir/fhircore/pkg/document"
	"github.com/gofhir/fhircore/pkg/resource"
)

// GoalStatus is the lifecycle status of a care goal.
type GoalStatus int

const (
	GoalStatusProposed GoalStatus = iota
	GoalStatusPlanned
	GoalStatusAccepted
	GoalStatusActive
	GoalStatusOnHold
	GoalStatusCompleted
	GoalStatusCancelled
	GoalStatusEnteredInError
	GoalStatusRejected
)

var goalStatusNames = [...]string{
	"proposed",
	"planned",
	"accepted",
	"active",
	"on-hold",
	"completed",
	"cancelled",
	"entered-in-error",
	"rejected",
}

func (s GoalStatus) String() string {
	if s < 0 || int(s) >= len(goalStatusNames) {
		return ""
	}
	return goalStatusNames[s]
}

func (s GoalStatus) Valid() bool {
	return s >= 0 && int(s) < len(goalStatusNames)
}

// GoalStatusFromString maps a lifecycle status code to its enum value.
func GoalStatusFromString(code string) (GoalStatus, bool) {
	for i, name := range goalStatusNames {
		if name == code {
			return GoalStatus(i), true
		}
	}
	return GoalStatusProposed, false
}

// Goal is an intended health objective for a subject.
type Goal struct {
	resource.Base

	LifecycleStatus GoalStatus
	Description     *datatype.CodeableConcept
	Subject         *datatype.Reference
	Priority        *datatype.CodeableConcept
	StartDate       string
}

// NewGoal builds a goal in proposed status. Description and Subject are
// required for the goal to validate.
func NewGoal(id string) (*Goal, error) {
	base, err := resource.NewBase(resource.KindGoal, id)
	if err != nil {
		return nil, err
	}
	return &Goal{Base: base, LifecycleStatus: GoalStatusProposed}, nil
}

// SetLifecycleStatus transitions the goal's lifecycle status.
func (g *Goal) SetLifecycleStatus(s GoalStatus) bool {
	if !s.Valid() {
		return false
	}
	g.LifecycleStatus = s
	return true
}

// Validate requires a description and a subject.
func (g *Goal) Validate() bool {
	return g.Description != nil && g.Subject != nil
}

func (g *Goal) Document() document.Document {
	d := g.DocumentBase()
	d.SetString("lifecycleStatus", g.LifecycleStatus.String())
	if g.Description != nil {
		d.Set("description", g.Description.Document())
	}
	if g.Subject != nil {
		d.Set("subject", g.Subject.Document())
	}
	if g.Priority != nil {
		d.Set("priority", g.Priority.Document())
	}
	d.SetString("startDate", g.StartDate)
	return d
}

func (g *Goal) Populate(doc document.Document) bool {
	next := *g
	if !next.PopulateBase(doc) {
		return false
	}

	code, present, ok := readCode(doc, "lifecycleStatus")
	if !ok {
		return false
	}
	next.LifecycleStatus = GoalStatusProposed
	if present {
		if s, ok := GoalStatusFromString(code); ok {
			next.LifecycleStatus = s
		}
	}

	next.Description = readConcept(doc, "description")
	next.Subject = readReference(doc, "subject")
	next.Priority = readConcept(doc, "priority")
	next.StartDate = readDate(doc, "startDate")

	*g = next
	return true
}

func (g *Goal) Clone() resource.Resource {
	out := *g
	out.Description = cloneConcept(g.Description)
	out.Subject = cloneReference(g.Subject)
	out.Priority = cloneConcept(g.Priority)
	return &out
}

// Label prefers the description text, then the first coding display,
// falling back to the kind name.
func (g *Goal) Label() string {
	if g.Description != nil {
		if g.Description.Text != "" {
			return g.Description.Text
		}
		for i := range g.Description.Coding {
			if d := g.Description.Coding[i].Display; d != "" {
				return d
			}
		}
	}
	return g.Kind().String()
}

// IsActive reports whether the goal is being pursued: accepted or
// active lifecycle status.
func (g *Goal) IsActive() bool {
	return g.LifecycleStatus == GoalStatusAccepted || g.LifecycleStatus == GoalStatusActive
}

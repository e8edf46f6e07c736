package datatype

import (
	"github.com/gofhir/fhircore/pkg/document"
)

// Coding is a single coded term drawn from a terminology system.
type Coding struct {
	System       string
	Version      string
	Code         string
	Display      string
	UserSelected bool
}

// NewCoding creates a Coding with the common three fields populated.
func NewCoding(system, code, display string) *Coding {
	return &Coding{System: system, Code: code, Display: display}
}

// ParseCoding reads a Coding from an object-shaped document node.
func ParseCoding(v any) (*Coding, bool) {
	obj, ok := document.AsObject(v)
	if !ok {
		return nil, false
	}

	c := &Coding{}
	c.System, _ = obj.GetString("system")
	c.Version, _ = obj.GetString("version")
	c.Code, _ = obj.GetString("code")
	c.Display, _ = obj.GetString("display")
	c.UserSelected, _ = obj.GetBool("userSelected")
	return c, true
}

// Document renders the Coding, emitting only populated fields.
// userSelected is emitted only when true, matching its default.
func (c *Coding) Document() document.Document {
	d := document.New()
	d.SetString("system", c.System)
	d.SetString("version", c.Version)
	d.SetString("code", c.Code)
	d.SetString("display", c.Display)
	if c.UserSelected {
		d.SetBool("userSelected", true)
	}
	return d
}

// CodeableConcept is a set of alternative codings plus optional free text.
type CodeableConcept struct {
	Coding []Coding
	Text   string
}

// NewCodeableConcept creates a CodeableConcept carrying free text only.
func NewCodeableConcept(text string) *CodeableConcept {
	return &CodeableConcept{Text: text}
}

// ParseCodeableConcept reads a CodeableConcept from an object-shaped node.
// Entries in the coding array that are not valid Coding objects are
// skipped; the parsed concept holds exactly the codings that parsed.
func ParseCodeableConcept(v any) (*CodeableConcept, bool) {
	obj, ok := document.AsObject(v)
	if !ok {
		return nil, false
	}

	cc := &CodeableConcept{}
	cc.Text, _ = obj.GetString("text")

	if arr, ok := obj.GetArray("coding"); ok {
		for _, item := range arr {
			if c, ok := ParseCoding(item); ok {
				cc.Coding = append(cc.Coding, *c)
			}
		}
	}
	return cc, true
}

// Document renders the CodeableConcept, emitting only populated fields.
func (cc *CodeableConcept) Document() document.Document {
	d := document.New()
	if len(cc.Coding) > 0 {
		arr := make([]any, 0, len(cc.Coding))
		for i := range cc.Coding {
			arr = append(arr, cc.Coding[i].Document())
		}
		d.SetArray("coding", arr)
	}
	d.SetString("text", cc.Text)
	return d
}

// Clone returns an independent deep copy.
func (cc *CodeableConcept) Clone() *CodeableConcept {
	out := &CodeableConcept{Text: cc.Text}
	if len(cc.Coding) > 0 {
		out.Coding = make([]Coding, len(cc.Coding))
		copy(out.Coding, cc.Coding)
	}
	return out
}

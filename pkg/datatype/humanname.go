package datatype

import (
	"strings"

	"github.com/gofhir/fhircore/pkg/document"
)

// HumanName is a person name with structured parts.
type HumanName struct {
	Use    string
	Text   string
	Family string
	Given  []string
	Prefix []string
	Suffix []string
}

// ParseHumanName reads a HumanName from an object-shaped document node.
// Non-string entries inside the given/prefix/suffix arrays are skipped.
func ParseHumanName(v any) (*HumanName, bool) {
	obj, ok := document.AsObject(v)
	if !ok {
		return nil, false
	}

	n := &HumanName{}
	n.Use, _ = obj.GetString("use")
	n.Text, _ = obj.GetString("text")
	n.Family, _ = obj.GetString("family")
	n.Given = parseStringArray(obj, "given")
	n.Prefix = parseStringArray(obj, "prefix")
	n.Suffix = parseStringArray(obj, "suffix")
	return n, true
}

// Document renders the HumanName, emitting only populated fields.
func (n *HumanName) Document() document.Document {
	d := document.New()
	d.SetString("use", n.Use)
	d.SetString("text", n.Text)
	d.SetString("family", n.Family)
	d.SetArray("given", stringArrayValue(n.Given))
	d.SetArray("prefix", stringArrayValue(n.Prefix))
	d.SetArray("suffix", stringArrayValue(n.Suffix))
	return d
}

// Clone returns an independent deep copy.
func (n *HumanName) Clone() *HumanName {
	out := *n
	out.Given = append([]string(nil), n.Given...)
	out.Prefix = append([]string(nil), n.Prefix...)
	out.Suffix = append([]string(nil), n.Suffix...)
	return &out
}

// Display returns the best human-readable rendering of the name:
// the text field when set, otherwise given names followed by the family.
func (n *HumanName) Display() string {
	if n.Text != "" {
		return n.Text
	}
	parts := make([]string, 0, len(n.Given)+1)
	parts = append(parts, n.Given...)
	if n.Family != "" {
		parts = append(parts, n.Family)
	}
	return strings.Join(parts, " ")
}

// parseStringArray reads an array of strings from obj, keeping only
// elements that are strings.
func parseStringArray(obj document.Document, key string) []string {
	arr, ok := obj.GetArray(key)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range arr {
		if s, ok := document.AsString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// stringArrayValue converts a string slice to a document array value.
func stringArrayValue(ss []string) []any {
	if len(ss) == 0 {
		return nil
	}
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

package fhircore

// IssueSeverity grades audit findings.
type IssueSeverity string

const (
	// SeverityFatal indicates the resource could not be processed at all.
	SeverityFatal IssueSeverity = "fatal"
	// SeverityError indicates the resource is invalid.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a potential problem worth reviewing.
	SeverityWarning IssueSeverity = "warning"
	// SeverityInformation indicates informational feedback.
	SeverityInformation IssueSeverity = "information"
)

// IssueType categorizes audit findings.
type IssueType string

const (
	// IssueTypeInvalid indicates malformed content.
	IssueTypeInvalid IssueType = "invalid"
	// IssueTypeStructure indicates a structural problem.
	IssueTypeStructure IssueType = "structure"
	// IssueTypeRequired indicates a missing required field.
	IssueTypeRequired IssueType = "required"
	// IssueTypeValue indicates an invalid field value.
	IssueTypeValue IssueType = "value"
	// IssueTypeProcessing indicates a processing failure.
	IssueTypeProcessing IssueType = "processing"
	// IssueTypeNotSupported indicates an unsupported resource kind.
	IssueTypeNotSupported IssueType = "not-supported"
	// IssueTypeInformational indicates informational content.
	IssueTypeInformational IssueType = "informational"
)

// Issue is a single audit finding.
type Issue struct {
	// Severity of the finding.
	Severity IssueSeverity `json:"severity"`

	// Code identifying the type of finding.
	Code IssueType `json:"code"`

	// Diagnostics contains human-readable details.
	Diagnostics string `json:"diagnostics,omitempty"`

	// Expression contains path(s) to the element(s) concerned.
	Expression []string `json:"expression,omitempty"`
}

// IsError reports whether the finding is an error or fatal.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError || i.Severity == SeverityFatal
}

// IsWarning reports whether the finding is a warning.
func (i Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// String returns a human-readable rendering of the finding.
func (i Issue) String() string {
	path := ""
	if len(i.Expression) > 0 {
		path = " at " + i.Expression[0]
	}
	return string(i.Severity) + ": " + i.Diagnostics + path
}

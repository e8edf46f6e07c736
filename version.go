package fhircore

// Version is the library version.
const Version = "0.3.0"

// FHIRVersion identifies a FHIR specification release.
type FHIRVersion string

// Supported FHIR versions.
const (
	// R4 is FHIR Release 4 (4.0.1)
	R4 FHIRVersion = "R4"
	// R4B is FHIR Release 4B (4.3.0)
	R4B FHIRVersion = "R4B"
	// R5 is FHIR Release 5 (5.0.0)
	R5 FHIRVersion = "R5"
)

// String returns the release label.
func (v FHIRVersion) String() string {
	return string(v)
}

// IsValid reports whether v is a supported release.
func (v FHIRVersion) IsValid() bool {
	switch v {
	case R4, R4B, R5:
		return true
	default:
		return false
	}
}

// versionStrings maps releases to the version strings used on the wire.
var versionStrings = map[FHIRVersion]string{
	R4:  "4.0.1",
	R4B: "4.3.0",
	R5:  "5.0.0",
}

// VersionString returns the wire version string for a release.
func (v FHIRVersion) VersionString() string {
	return versionStrings[v]
}

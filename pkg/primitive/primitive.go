// Package primitive provides lexical validation of FHIR primitive values.
//
// All functions are pure predicates: no side effects, no allocation on the
// accept path. They check lexical shape only: the date predicate bounds
// the day to 1-31 but does not consult a calendar.
package primitive

import (
	"regexp"
	"strings"
	"unicode"
)

// idPattern bounds resource logical ids: letters, digits, hyphen and
// period, 1 to 64 characters.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9.\-]{1,64}$`)

// IsValidID reports whether id is a well-formed resource logical id.
func IsValidID(id string) bool {
	return idPattern.MatchString(id)
}

// IsValidDate reports whether date matches YYYY, YYYY-MM or YYYY-MM-DD.
// Month is bounded to 01-12 and day to 01-31; no days-per-month check.
func IsValidDate(date string) bool {
	switch len(date) {
	case 4, 7, 10:
	default:
		return false
	}

	for i := 0; i < 4; i++ {
		if !isDigit(date[i]) {
			return false
		}
	}

	if len(date) >= 7 {
		if date[4] != '-' || !isDigit(date[5]) || !isDigit(date[6]) {
			return false
		}
		month := int(date[5]-'0')*10 + int(date[6]-'0')
		if month < 1 || month > 12 {
			return false
		}
	}

	if len(date) == 10 {
		if date[7] != '-' || !isDigit(date[8]) || !isDigit(date[9]) {
			return false
		}
		day := int(date[8]-'0')*10 + int(date[9]-'0')
		if day < 1 || day > 31 {
			return false
		}
	}

	return true
}

// IsValidTime reports whether t matches HH:MM:SS with an optional
// fractional part. Hour is bounded to 23, minute and second to 59.
func IsValidTime(t string) bool {
	if len(t) < 8 {
		return false
	}

	if !isDigit(t[0]) || !isDigit(t[1]) || t[2] != ':' ||
		!isDigit(t[3]) || !isDigit(t[4]) || t[5] != ':' ||
		!isDigit(t[6]) || !isDigit(t[7]) {
		return false
	}

	hour := int(t[0]-'0')*10 + int(t[1]-'0')
	minute := int(t[3]-'0')*10 + int(t[4]-'0')
	second := int(t[6]-'0')*10 + int(t[7]-'0')
	if hour > 23 || minute > 59 || second > 59 {
		return false
	}

	// Optional fractional seconds: a dot followed by at least one digit.
	if len(t) > 8 {
		if t[8] != '.' || len(t) == 9 {
			return false
		}
		for i := 9; i < len(t); i++ {
			if !isDigit(t[i]) {
				return false
			}
		}
	}

	return true
}

// IsValidCode reports whether code is a well-formed code value:
// non-empty with no whitespace anywhere.
func IsValidCode(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsValidURI reports whether uri carries a scheme delimiter.
func IsValidURI(uri string) bool {
	return strings.Contains(uri, ":")
}

// IsValidURL reports whether url is an http or https URL.
func IsValidURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

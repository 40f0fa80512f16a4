package casefile

import (
	"regexp"
	"strings"
)

// ExpectedLength is the length of a case number as issued by the authority.
const ExpectedLength = 23

var caseNumberPattern = regexp.MustCompile(`^\d{20,25}$`)

// ValidCaseNumber reports whether id, once trimmed, is a plausible case number.
func ValidCaseNumber(id string) bool {
	return caseNumberPattern.MatchString(strings.TrimSpace(id))
}

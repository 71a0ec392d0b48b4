package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	documentIDPrefix  = regexp.MustCompile(`(?i)^sfs\s*`)
	documentIDPattern = regexp.MustCompile(`^([0-9]{4})\s*:\s*0*([0-9]+)$`)
)

// NormalizeDocumentID reduces an official document number to its canonical
// "YYYY:N" form. Case, surrounding whitespace, an optional "SFS" prefix and
// leading zeros in the serial are ignored, so "sfs 1977:01160" and
// " SFS 1977:1160 " both yield "1977:1160".
func NormalizeDocumentID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	id = documentIDPrefix.ReplaceAllString(id, "")
	id = strings.TrimSpace(id)

	m := documentIDPattern.FindStringSubmatch(id)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDocumentID, raw)
	}
	return m[1] + ":" + m[2], nil
}

// DisplayDocumentID renders a canonical id with its "SFS" prefix.
func DisplayDocumentID(id string) string {
	return "SFS " + id
}

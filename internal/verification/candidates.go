package verification

import (
	"regexp"
	"strings"
)

var (
	// Labeled spans like "Roll No: 21BCS1234". Only the label is
	// case-insensitive; the token itself must be uppercase.
	labeledRe = regexp.MustCompile(`(?i:\b(?:Roll|Enroll|Reg|Registration)\s*(?:No\.?|Number)?\s*[:.\-]?\s*)([A-Z0-9]{5,20})`)

	// Generic uppercase alphanumeric tokens. A contains-digit filter is
	// applied afterwards so institution names, "INDIA" and the like never
	// become candidates (RE2 has no lookahead).
	genericRe = regexp.MustCompile(`\b[A-Z0-9]{5,15}\b`)
)

// ExtractCandidates scans raw OCR text for token sequences that could be a
// roll/enrollment number. Labeled-field matches come first, each heuristic
// in text order, so the reconciler tries the explicitly labeled spans before
// arbitrary tokens. Pure function: no matches yields an empty slice, never
// an error. Duplicates are kept; ordering is what matters.
func ExtractCandidates(text string) []string {
	var candidates []string

	for _, m := range labeledRe.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, m[1])
	}

	for _, token := range genericRe.FindAllString(text, -1) {
		if strings.ContainsAny(token, "0123456789") {
			candidates = append(candidates, token)
		}
	}

	return candidates
}

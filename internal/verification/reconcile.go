package verification

import (
	"strings"

	"github.com/adrg/strutil/metrics"
)

const (
	// Score when the normalized roll number was read verbatim off the card.
	exactMatchScore = 100
	// Score when a candidate matched within the edit-distance budget; lower
	// because the correction is inferred, not read.
	fuzzyMatchScore = 90
	// Edit-distance budget for OCR noise ("0" read as "O", a dropped digit).
	// A tight radius keeps phone numbers and years on the card from being
	// mistaken for the roll number.
	maxEditDistance = 2
)

// Normalize converts a raw roll number into its canonical comparable form:
// uppercase, alphanumerics only. Idempotent. The normalized form is what is
// matched, checked for uniqueness, and persisted.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatchOutcome is the reconciler's verdict on one verification attempt.
type MatchOutcome struct {
	Matched    bool
	Confidence int
	// Candidate that satisfied the fuzzy fallback; equal to the cleaned
	// roll number on an exact match, empty when nothing matched.
	Candidate string
}

// Reconcile decides whether the cleaned (already normalized) roll number and
// the OCR output represent the same identifier.
//
// Exact containment anywhere in the raw text wins outright. Otherwise the
// candidates are scanned in their priority order and the first one within
// the edit-distance budget is accepted; labeled spans were queued first, so
// a coincidentally closer unlabeled token never outranks a labeled one.
// Deliberately not closest-distance-wins.
func Reconcile(cleaned, ocrText string, candidates []string) MatchOutcome {
	if cleaned == "" {
		return MatchOutcome{}
	}

	if strings.Contains(strings.ToUpper(ocrText), cleaned) {
		return MatchOutcome{Matched: true, Confidence: exactMatchScore, Candidate: cleaned}
	}

	lev := metrics.NewLevenshtein()
	for _, candidate := range candidates {
		if lev.Distance(cleaned, candidate) <= maxEditDistance {
			return MatchOutcome{Matched: true, Confidence: fuzzyMatchScore, Candidate: candidate}
		}
	}

	return MatchOutcome{}
}

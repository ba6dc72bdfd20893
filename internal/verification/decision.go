package verification

// Decide maps the reconciler's verdict and the uniqueness finding to a
// status and score. Pure and deterministic.
//
// A duplicate roll number blocks auto-verification no matter how strong the
// OCR match was; the confident score is still recorded for the reviewer.
// REJECTED is unreachable from here: the automated path can only promote to
// VERIFIED or park at PENDING, and only a human can reject.
func Decide(matched bool, confidence int, unique bool) (Status, int) {
	switch {
	case matched && unique:
		return StatusVerified, confidence
	case matched:
		return StatusPending, confidence
	default:
		return StatusPending, 0
	}
}

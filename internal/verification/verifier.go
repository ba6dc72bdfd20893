package verification

import (
	"context"

	"go.uber.org/zap"
)

const (
	// OCR text kept in diagnostics, in runes.
	ocrExcerptLimit = 500
	// Candidates kept in diagnostics.
	maxReportedCandidates = 5
)

// UserDirectory is the user-store lookup the pipeline consumes for the
// uniqueness check. Implementations return the owning user's id, or empty
// when the roll number is unclaimed.
type UserDirectory interface {
	FindUserIDByRollNumber(ctx context.Context, rollNumber string) (string, error)
}

// Verifier runs the verification pipeline: extract text, collect
// candidates, reconcile against the typed roll number, check uniqueness,
// decide. Strictly sequential; each request is one independent run.
type Verifier struct {
	extractor TextExtractor
	directory UserDirectory
	logger    *zap.Logger
}

// NewVerifier wires the pipeline. The extractor is injected so tests can
// substitute a stub for the OCR engine.
func NewVerifier(extractor TextExtractor, directory UserDirectory, logger *zap.Logger) *Verifier {
	return &Verifier{
		extractor: extractor,
		directory: directory,
		logger:    logger.Named("verifier"),
	}
}

// Verify always returns a Result; no expected failure mode escapes as an
// error. A broken OCR path degrades to PENDING with the cause recorded in
// diagnostics, never to VERIFIED or REJECTED.
func (v *Verifier) Verify(ctx context.Context, req Request) Result {
	logger := v.logger.With(zap.String("user_id", req.UserID))
	cleaned := Normalize(req.TypedRollNumber)

	ocrText, err := v.extractor.ExtractText(ctx, req.ImageURL)
	if err != nil {
		logger.Warn("extraction failed, parking at pending", zap.Error(err))
		return Result{
			Score:             0,
			Status:            StatusPending,
			CleanedRollNumber: cleaned,
			Diagnostics:       Diagnostics{Error: err.Error()},
		}
	}

	candidates := ExtractCandidates(ocrText)
	outcome := Reconcile(cleaned, ocrText, candidates)

	unique := true
	diagErr := ""
	if cleaned != "" {
		ownerID, err := v.directory.FindUserIDByRollNumber(ctx, cleaned)
		switch {
		case err != nil:
			// Can't prove uniqueness, so don't assume it. The decision
			// engine will park the attempt at PENDING for review.
			logger.Error("uniqueness lookup failed", zap.Error(err))
			unique = false
			diagErr = err.Error()
		case ownerID != "" && ownerID != req.UserID:
			logger.Info("roll number already claimed",
				zap.String("roll_number", cleaned),
				zap.String("owner_id", ownerID))
			unique = false
		}
	}

	status, score := Decide(outcome.Matched, outcome.Confidence, unique)
	logger.Info("verification decided",
		zap.String("status", string(status)),
		zap.Int("score", score),
		zap.Bool("match", outcome.Matched),
		zap.Bool("unique", unique))

	return Result{
		Score:             score,
		Status:            status,
		CleanedRollNumber: cleaned,
		Diagnostics: Diagnostics{
			OCRExcerpt: truncateRunes(ocrText, ocrExcerptLimit),
			IsMatch:    outcome.Matched,
			IsUnique:   unique,
			Candidates: firstN(candidates, maxReportedCandidates),
			Error:      diagErr,
		},
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func firstN(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}

package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campusverify/internal/cache"
	"campusverify/internal/logging"
	"campusverify/internal/models"
	"campusverify/internal/store"
	"campusverify/internal/verification"
)

// ErrInvalidStatus rejects admin overrides outside VERIFIED/REJECTED.
var ErrInvalidStatus = errors.New("status must be VERIFIED or REJECTED")

// IncompleteProfileError lists the profile fields a student must fill in
// before a verification attempt is accepted.
type IncompleteProfileError struct {
	Missing []string
}

func (e *IncompleteProfileError) Error() string {
	return "profile incomplete, missing: " + strings.Join(e.Missing, ", ")
}

// UserStore is the persistence surface the use case depends on.
type UserStore interface {
	FindBySubject(ctx context.Context, subjectID string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	CreateIfMissing(ctx context.Context, user *models.User) (bool, error)
	UpdateVerification(ctx context.Context, subjectID string, update store.VerificationUpdate) error
	ListByStatus(ctx context.Context, status string, limit int) ([]models.User, error)
	OverrideStatus(ctx context.Context, id uint, status string) (*models.User, error)
}

// Verifier runs the OCR reconciliation pipeline.
type Verifier interface {
	Verify(ctx context.Context, req verification.Request) verification.Result
}

// StatusSummary is what the status endpoint exposes to the student: the
// outcome, never the matching diagnostics.
type StatusSummary struct {
	Status     string    `json:"status"`
	Score      int       `json:"score"`
	RollNumber string    `json:"roll_number,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	statusCacheTTL     = 5 * time.Minute
	pendingReviewLimit = 100
)

// VerificationUseCase orchestrates the pipeline with persistence and
// caching: load the profile snapshot, run the core, write the outcome back,
// demote on a write-time uniqueness conflict.
type VerificationUseCase struct {
	store    UserStore
	cache    cache.Cache
	verifier Verifier
	logger   *zap.Logger
}

func NewVerificationUseCase(userStore UserStore, c cache.Cache, verifier Verifier, logger *zap.Logger) *VerificationUseCase {
	return &VerificationUseCase{
		store:    userStore,
		cache:    c,
		verifier: verifier,
		logger:   logger.Named("verification_usecase"),
	}
}

// Bootstrap provisions the user row on first login. Idempotent.
func (uc *VerificationUseCase) Bootstrap(ctx context.Context, subjectID, email, name string) (*models.User, bool, error) {
	user := &models.User{SubjectID: subjectID, Email: email, Name: name}
	created, err := uc.store.CreateIfMissing(ctx, user)
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

// Submit runs one verification attempt end to end and persists the outcome.
// Expected pipeline failures (OCR timeout, no match, duplicate) are not
// errors: they come back inside the Result as a PENDING outcome.
func (uc *VerificationUseCase) Submit(ctx context.Context, subjectID, imageURL, typedRollNumber string) (verification.Result, error) {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(uc.logger, "usecase.submit_verification", requestID)

	user, err := uc.store.FindBySubject(ctx, subjectID)
	if err != nil {
		return verification.Result{}, err
	}
	if missing := missingProfileFields(user); len(missing) > 0 {
		return verification.Result{}, &IncompleteProfileError{Missing: missing}
	}

	result := uc.verifier.Verify(ctx, verification.Request{
		UserID:          subjectID,
		ImageURL:        imageURL,
		TypedRollNumber: typedRollNumber,
		Profile: verification.ProfileSnapshot{
			Name:             user.Name,
			FatherName:       user.FatherName,
			AdmissionNumber:  user.AdmissionNumber,
			EnrollmentNumber: user.EnrollmentNumber,
			Course:           user.Course,
			RollNumber:       derefRollNumber(user.RollNumber),
		},
	})

	if err := uc.persist(ctx, subjectID, imageURL, result); err != nil {
		if !errors.Is(err, store.ErrRollNumberTaken) {
			opLogger.Error("failed to persist verification outcome", zap.Error(err))
			return verification.Result{}, logging.NewOperationError("usecase.persist_verification", requestID, err)
		}

		// The uniqueness check passed but the unique index rejected the
		// write: another account claimed the number in between. Treat as
		// not unique and park at PENDING without claiming the number.
		opLogger.Warn("roll number claimed concurrently, demoting to pending",
			zap.String("roll_number", result.CleanedRollNumber))
		status, score := verification.Decide(result.Diagnostics.IsMatch, result.Score, false)
		result.Status = status
		result.Score = score
		result.Diagnostics.IsUnique = false
		result.CleanedRollNumber = ""
		if err := uc.persist(ctx, subjectID, imageURL, result); err != nil {
			opLogger.Error("failed to persist demoted outcome", zap.Error(err))
			return verification.Result{}, logging.NewOperationError("usecase.persist_demoted", requestID, err)
		}
	}

	uc.cacheSummary(ctx, subjectID, StatusSummary{
		Status:     string(result.Status),
		Score:      result.Score,
		RollNumber: result.CleanedRollNumber,
		UpdatedAt:  time.Now().UTC(),
	})

	opLogger.Info("verification attempt recorded",
		zap.String("user_id", subjectID),
		zap.String("status", string(result.Status)),
		zap.Int("score", result.Score))
	return result, nil
}

// GetStatus returns the caller's latest verification summary, cache first.
func (uc *VerificationUseCase) GetStatus(ctx context.Context, subjectID string) (*StatusSummary, error) {
	key := statusCacheKey(subjectID)
	if raw, err := uc.cache.Get(ctx, key); err == nil {
		var summary StatusSummary
		if err := json.Unmarshal([]byte(raw), &summary); err == nil {
			return &summary, nil
		}
		uc.logger.Warn("discarding undecodable cached status", zap.String("user_id", subjectID))
	} else if !errors.Is(err, cache.ErrMiss) {
		uc.logger.Warn("status cache read failed", zap.Error(err))
	}

	user, err := uc.store.FindBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	summary := StatusSummary{
		Status:     user.VerificationStatus,
		Score:      user.VerificationScore,
		RollNumber: derefRollNumber(user.RollNumber),
		UpdatedAt:  user.UpdatedAt,
	}
	uc.cacheSummary(ctx, subjectID, summary)
	return &summary, nil
}

// ListPending is the admin review queue: accounts parked at PENDING with
// their stored diagnostics.
func (uc *VerificationUseCase) ListPending(ctx context.Context) ([]models.User, error) {
	return uc.store.ListByStatus(ctx, string(verification.StatusPending), pendingReviewLimit)
}

// Override is the human decision path and the only way an account becomes
// REJECTED.
func (uc *VerificationUseCase) Override(ctx context.Context, userID uint, status string) (*models.User, error) {
	if status != string(verification.StatusVerified) && status != string(verification.StatusRejected) {
		return nil, ErrInvalidStatus
	}
	user, err := uc.store.OverrideStatus(ctx, userID, status)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Delete(ctx, statusCacheKey(user.SubjectID)); err != nil && !errors.Is(err, cache.ErrMiss) {
		uc.logger.Warn("failed to invalidate status cache", zap.Error(err))
	}
	return user, nil
}

// VerifiedProfileURL resolves the public profile link encoded into the
// badge QR. Only verified accounts have one.
func (uc *VerificationUseCase) VerifiedProfileURL(ctx context.Context, frontendBase string, userID uint) (string, error) {
	user, err := uc.store.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.VerificationStatus != string(verification.StatusVerified) {
		return "", store.ErrUserNotFound
	}
	return fmt.Sprintf("%s/profile/%d", strings.TrimRight(frontendBase, "/"), user.ID), nil
}

func (uc *VerificationUseCase) persist(ctx context.Context, subjectID, imageURL string, result verification.Result) error {
	diagnostics, err := json.Marshal(result.Diagnostics)
	if err != nil {
		return fmt.Errorf("serialize diagnostics: %w", err)
	}
	return uc.store.UpdateVerification(ctx, subjectID, store.VerificationUpdate{
		Status:     string(result.Status),
		Score:      result.Score,
		Data:       string(diagnostics),
		RollNumber: result.CleanedRollNumber,
		IDCardURL:  imageURL,
	})
}

// Cache writes are best effort; a cold cache only costs a store read.
func (uc *VerificationUseCase) cacheSummary(ctx context.Context, subjectID string, summary StatusSummary) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, statusCacheKey(subjectID), string(raw), statusCacheTTL); err != nil {
		uc.logger.Warn("status cache write failed", zap.Error(err))
	}
}

func statusCacheKey(subjectID string) string {
	return "verification:status:" + subjectID
}

func missingProfileFields(user *models.User) []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", user.Name},
		{"father_name", user.FatherName},
		{"admission_number", user.AdmissionNumber},
		{"enrollment_number", user.EnrollmentNumber},
		{"course", user.Course},
		{"college_name", user.CollegeName},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

func derefRollNumber(roll *string) string {
	if roll == nil {
		return ""
	}
	return *roll
}

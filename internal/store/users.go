package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusverify/internal/models"
)

var (
	// ErrUserNotFound maps gorm's record-not-found at the store boundary.
	ErrUserNotFound = errors.New("user not found")
	// ErrRollNumberTaken means the unique index on roll_number rejected a
	// write: another account claimed the number between the uniqueness
	// check and this write.
	ErrRollNumberTaken = errors.New("roll number already registered to another account")
)

// VerificationUpdate is the set of fields a verification attempt writes
// back onto the user row. RollNumber empty means "do not claim".
type VerificationUpdate struct {
	Status     string
	Score      int
	Data       string
	RollNumber string
	IDCardURL  string
}

// UserStore is the gorm-backed persistence layer for student accounts.
type UserStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserStore(db *gorm.DB, logger *zap.Logger) *UserStore {
	return &UserStore{db: db, logger: logger.Named("user_store")}
}

// FindBySubject loads a user by identity-provider subject.
func (s *UserStore) FindBySubject(ctx context.Context, subjectID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("subject_id = ?", subjectID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by subject: %w", err)
	}
	return &user, nil
}

// FindByID loads a user by primary key.
func (s *UserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// CreateIfMissing provisions the user row on first login. Idempotent:
// returns the existing row when the subject is already known.
func (s *UserStore) CreateIfMissing(ctx context.Context, user *models.User) (created bool, err error) {
	var existing models.User
	err = s.db.WithContext(ctx).Where("subject_id = ?", user.SubjectID).First(&existing).Error
	if err == nil {
		*user = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup before create: %w", err)
	}

	if user.VerificationStatus == "" {
		user.VerificationStatus = "UNVERIFIED"
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return true, nil
}

// FindUserIDByRollNumber returns the subject id of the account holding the
// normalized roll number, or empty when it is unclaimed. Point-in-time
// check, no locking; the unique index backs it up at write time.
func (s *UserStore) FindUserIDByRollNumber(ctx context.Context, rollNumber string) (string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("roll_number = ?", rollNumber).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find user by roll number: %w", err)
	}
	return user.SubjectID, nil
}

// UpdateVerification writes a verification outcome onto the user row. A
// duplicate-key violation on roll_number comes back as ErrRollNumberTaken
// so the caller can demote the result instead of crashing the request.
func (s *UserStore) UpdateVerification(ctx context.Context, subjectID string, update VerificationUpdate) error {
	values := map[string]any{
		"verification_status": update.Status,
		"verification_score":  update.Score,
		"verification_data":   update.Data,
	}
	if update.IDCardURL != "" {
		values["college_id_card"] = update.IDCardURL
	}
	if update.RollNumber != "" {
		values["roll_number"] = update.RollNumber
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("subject_id = ?", subjectID).Updates(values)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrRollNumberTaken
		}
		return fmt.Errorf("update verification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListByStatus returns accounts in the given verification state, newest
// update first. Used by the admin review queue.
func (s *UserStore) ListByStatus(ctx context.Context, status string, limit int) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("verification_status = ?", status).
		Order("updated_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users by status: %w", err)
	}
	return users, nil
}

// OverrideStatus is the human review path: it rewrites the stored status
// directly, bypassing the pipeline. Returns the updated row.
func (s *UserStore) OverrideStatus(ctx context.Context, id uint, status string) (*models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(user).Update("verification_status", status).Error
	if err != nil {
		return nil, fmt.Errorf("override status: %w", err)
	}
	user.VerificationStatus = status
	return user, nil
}

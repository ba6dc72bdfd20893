package models

import "time"

// User is the persistent student account the verification pipeline reads
// from and writes back to. The surrounding marketplace owns most of these
// columns; this service only touches the verification fields, the ID card
// reference and the roll number.
//
// RollNumber is a pointer so unverified accounts store NULL instead of
// colliding on the unique index.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SubjectID string `gorm:"column:subject_id;uniqueIndex;size:64" json:"subject_id"`
	Email     string `gorm:"size:255" json:"email"`

	Name             string `gorm:"size:255" json:"name"`
	FatherName       string `gorm:"size:255" json:"father_name"`
	AdmissionNumber  string `gorm:"size:64" json:"admission_number"`
	EnrollmentNumber string `gorm:"size:64" json:"enrollment_number"`
	Course           string `gorm:"size:128" json:"course"`
	CollegeName      string `gorm:"size:255" json:"college_name"`

	RollNumber    *string `gorm:"uniqueIndex;size:32" json:"roll_number,omitempty"`
	CollegeIDCard string  `gorm:"size:512" json:"college_id_card,omitempty"`

	VerificationStatus string `gorm:"size:16;default:UNVERIFIED" json:"verification_status"`
	VerificationScore  int    `json:"verification_score"`
	// JSON diagnostics blob from the last verification attempt, kept for
	// admin review only.
	VerificationData string `gorm:"type:text" json:"verification_data,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package verification

// Status is the trust level recorded on a student account.
type Status string

const (
	StatusUnverified Status = "UNVERIFIED"
	StatusPending    Status = "PENDING"
	StatusVerified   Status = "VERIFIED"
	// StatusRejected is only ever written by the admin override; the
	// automated pipeline cannot produce it.
	StatusRejected Status = "REJECTED"
)

// ProfileSnapshot is the read-only profile context attached to a request.
// It is not consumed by the matching logic yet; reserved for cross-field
// heuristics (name on card vs profile name, etc).
type ProfileSnapshot struct {
	Name             string
	FatherName       string
	AdmissionNumber  string
	EnrollmentNumber string
	Course           string
	RollNumber       string
}

// Request describes one verification attempt. Transient, never persisted
// as its own entity.
type Request struct {
	UserID          string
	ImageURL        string
	TypedRollNumber string
	Profile         ProfileSnapshot
}

// Diagnostics is the bounded audit trail stored alongside the outcome.
// Admin review only; never re-computed from.
type Diagnostics struct {
	OCRExcerpt string   `json:"ocr_text"`
	IsMatch    bool     `json:"is_match"`
	IsUnique   bool     `json:"is_unique"`
	Candidates []string `json:"candidates,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Result is the pipeline's only output artifact. The caller persists it
// onto the user record.
type Result struct {
	Score             int
	Status            Status
	CleanedRollNumber string
	Diagnostics       Diagnostics
}

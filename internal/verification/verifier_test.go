package verification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText(ctx context.Context, imageURL string) (string, error) {
	return s.text, s.err
}

type stubDirectory struct {
	ownerBySubject map[string]string // roll number -> subject id
	err            error
	lookups        []string
}

func (s *stubDirectory) FindUserIDByRollNumber(ctx context.Context, rollNumber string) (string, error) {
	s.lookups = append(s.lookups, rollNumber)
	if s.err != nil {
		return "", s.err
	}
	return s.ownerBySubject[rollNumber], nil
}

func newTestVerifier(extractor TextExtractor, directory UserDirectory) *Verifier {
	return NewVerifier(extractor, directory, zap.NewNop())
}

func TestVerifyExactMatchVerified(t *testing.T) {
	v := newTestVerifier(
		&stubExtractor{text: "NAME: JOHN ROLL NO: 21BCS1234 COLLEGE XYZ"},
		&stubDirectory{},
	)

	result := v.Verify(context.Background(), Request{
		UserID:          "user-1",
		ImageURL:        "https://cdn.example.com/card.png",
		TypedRollNumber: "21bcs1234",
	})

	if result.Status != StatusVerified || result.Score != 100 {
		t.Fatalf("expected VERIFIED/100, got %s/%d", result.Status, result.Score)
	}
	if result.CleanedRollNumber != "21BCS1234" {
		t.Fatalf("unexpected cleaned roll number %q", result.CleanedRollNumber)
	}
	if !result.Diagnostics.IsMatch || !result.Diagnostics.IsUnique {
		t.Fatalf("diagnostics flags wrong: %+v", result.Diagnostics)
	}
}

func TestVerifyFuzzyMatchVerified(t *testing.T) {
	// One misread character on the card.
	v := newTestVerifier(
		&stubExtractor{text: "ID CARD 21BCS1Z34 SOME COLLEGE"},
		&stubDirectory{},
	)

	result := v.Verify(context.Background(), Request{
		UserID:          "user-1",
		TypedRollNumber: "21BCS1234",
	})

	if result.Status != StatusVerified || result.Score != 90 {
		t.Fatalf("expected VERIFIED/90, got %s/%d", result.Status, result.Score)
	}
}

func TestVerifyNoMatchPending(t *testing.T) {
	v := newTestVerifier(
		&stubExtractor{text: "STUDENT UNION LIBRARY CARD"},
		&stubDirectory{},
	)

	result := v.Verify(context.Background(), Request{
		UserID:          "user-1",
		TypedRollNumber: "21BCS1234",
	})

	if result.Status != StatusPending || result.Score != 0 {
		t.Fatalf("expected PENDING/0, got %s/%d", result.Status, result.Score)
	}
	if result.Diagnostics.IsMatch {
		t.Fatal("expected no match")
	}
}

func TestVerifyDuplicateRollNumberBlocksVerification(t *testing.T) {
	// Strong OCR match, but another account already holds the number.
	v := newTestVerifier(
		&stubExtractor{text: "ROLL NO: 21BCS1234"},
		&stubDirectory{ownerBySubject: map[string]string{"21BCS1234": "someone-else"}},
	)

	result := v.Verify(context.Background(), Request{
		UserID:          "user-1",
		TypedRollNumber: "21BCS1234",
	})

	if result.Status != StatusPending {
		t.Fatalf("duplicate roll number must never verify, got %s", result.Status)
	}
	if result.Score != 100 {
		t.Fatalf("confident match score should be recorded for review, got %d", result.Score)
	}
	if result.Diagnostics.IsUnique {
		t.Fatal("diagnostics should flag the duplicate")
	}
}

func TestVerifySameOwnerIsStillUnique(t *testing.T) {
	// Re-verification by the account already holding the number.
	v := newTestVerifier(
		&stubExtractor{text: "ROLL NO: 21BCS1234"},
		&stubDirectory{ownerBySubject: map[string]string{"21BCS1234": "user-1"}},
	)

	result := v.Verify(context.Background(), Request{
		UserID:          "user-1",
		TypedRollNumber: "21BCS1234",
	})

	if result.Status != StatusVerified {
		t.Fatalf("own roll number must not count as duplicate, got %s", result.Status)
	}
}

func TestVerifyExtractionTimeoutDegradesToPending(t *testing.T) {
	directory := &stubDirectory{}
	v := newTestVerifier(&stubExtractor{err: ErrExtractionTimeout}, directory)

	result := v.Verify(context.Background(), Request{
		UserID:          "user-1",
		TypedRollNumber: "21BCS1234",
	})

	if result.Status != StatusPending || result.Score != 0 {
		t.Fatalf("expected PENDING/0 on timeout, got %s/%d", result.Status, result.Score)
	}
	if result.Diagnostics.Error == "" {
		t.Fatal("timeout must be recorded in diagnostics")
	}
	if len(directory.lookups) != 0 {
		t.Fatal("uniqueness check should not run after extraction failure")
	}
}

func TestVerifyExtractionFailureDegradesToPending(t *testing.T) {
	v := newTestVerifier(&stubExtractor{err: ErrExtractionFailed}, &stubDirectory{})

	result := v.Verify(context.Background(), Request{
		UserID:          "user-1",
		TypedRollNumber: "21BCS1234",
	})

	if result.Status != StatusPending || result.Score != 0 {
		t.Fatalf("expected PENDING/0 on failure, got %s/%d", result.Status, result.Score)
	}
	if result.CleanedRollNumber != "21BCS1234" {
		t.Fatalf("cleaned roll number should survive extraction failure, got %q", result.CleanedRollNumber)
	}
}

func TestVerifyDirectoryErrorParksAtPending(t *testing.T) {
	v := newTestVerifier(
		&stubExtractor{text: "ROLL NO: 21BCS1234"},
		&stubDirectory{err: errors.New("store unavailable")},
	)

	result := v.Verify(context.Background(), Request{
		UserID:          "user-1",
		TypedRollNumber: "21BCS1234",
	})

	if result.Status == StatusVerified {
		t.Fatal("unprovable uniqueness must not verify")
	}
	if result.Diagnostics.Error == "" {
		t.Fatal("lookup failure should be recorded in diagnostics")
	}
}

func TestVerifyDiagnosticsAreBounded(t *testing.T) {
	longText := strings.Repeat("NOISE ", 200) + " ROLL NO: 21BCS1234 " + strings.Repeat("R0LL99X ", 20)
	v := newTestVerifier(&stubExtractor{text: longText}, &stubDirectory{})

	result := v.Verify(context.Background(), Request{
		UserID:          "user-1",
		TypedRollNumber: "21BCS1234",
	})

	if len([]rune(result.Diagnostics.OCRExcerpt)) > 500 {
		t.Fatalf("OCR excerpt must be capped at 500 runes, got %d", len([]rune(result.Diagnostics.OCRExcerpt)))
	}
	if len(result.Diagnostics.Candidates) > 5 {
		t.Fatalf("candidate list must be capped at 5, got %d", len(result.Diagnostics.Candidates))
	}
}

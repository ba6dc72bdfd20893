package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/apiv1"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var (
	// ErrExtractionTimeout means OCR did not finish within the budget.
	ErrExtractionTimeout = errors.New("ocr extraction timed out")
	// ErrExtractionFailed covers every other OCR failure: unreachable
	// image, corrupt file, engine error.
	ErrExtractionFailed = errors.New("ocr extraction failed")
)

// TextExtractor pulls raw text out of a hosted image.
type TextExtractor interface {
	ExtractText(ctx context.Context, imageURL string) (string, error)
}

// VisionExtractor runs Google Cloud Vision text detection. The annotator
// client is created per call and released on every exit path, so a failed
// or timed-out extraction never leaks the underlying worker.
type VisionExtractor struct {
	credentialsFile string
	timeout         time.Duration
	logger          *zap.Logger
}

// NewVisionExtractor builds an extractor with the given time budget.
// credentialsFile may be empty to use application default credentials.
func NewVisionExtractor(credentialsFile string, timeout time.Duration, logger *zap.Logger) *VisionExtractor {
	return &VisionExtractor{
		credentialsFile: credentialsFile,
		timeout:         timeout,
		logger:          logger.Named("vision_extractor"),
	}
}

type ocrOutcome struct {
	text string
	err  error
}

// ExtractText returns the raw text Vision read off the image, or empty text
// when the image contains none. The call is raced against the timeout;
// whichever resolves first wins.
func (e *VisionExtractor) ExtractText(ctx context.Context, imageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var opts []option.ClientOption
	if e.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(e.credentialsFile))
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: init annotator client: %v", ErrExtractionFailed, err)
	}
	defer client.Close()

	resultCh := make(chan ocrOutcome, 1)
	go func() {
		img := vision.NewImageFromURI(imageURL)
		anns, err := client.DetectTexts(ctx, img, nil, 1)
		if err != nil {
			resultCh <- ocrOutcome{err: err}
			return
		}
		if len(anns) == 0 {
			resultCh <- ocrOutcome{text: ""}
			return
		}
		resultCh <- ocrOutcome{text: anns[0].Description}
	}()

	select {
	case out := <-resultCh:
		if out.err != nil {
			if errors.Is(out.err, context.DeadlineExceeded) {
				return "", ErrExtractionTimeout
			}
			e.logger.Warn("text detection failed", zap.Error(out.err))
			return "", fmt.Errorf("%w: %v", ErrExtractionFailed, out.err)
		}
		return out.text, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrExtractionTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrExtractionFailed, ctx.Err())
	}
}

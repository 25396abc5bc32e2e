// Package analyze dispatches a validated image to exactly one analysis
// strategy and assembles the verdict.
package analyze

import (
	"context"
	"errors"
	"fmt"

	"fraud-vision-api/src/config"
	"fraud-vision-api/src/exif"
	"fraud-vision-api/src/fraud"
	"fraud-vision-api/src/imaging"
	"fraud-vision-api/src/providers"
)

// Recognized analysis directives.
const (
	TypeWebSearch      = "web_search"
	TypeExif           = "exif"
	TypeClassification = "classification"
)

var (
	// ErrUnknownAnalysisType is returned for an unrecognized analysis_type.
	ErrUnknownAnalysisType = errors.New("unknown analysis type")

	// ErrProvider wraps any failure of an external analysis collaborator.
	ErrProvider = errors.New("provider request failed")
)

// Analyzer routes one request to one strategy. It holds no per-request
// state, so a single instance serves concurrent requests.
type Analyzer struct {
	WebDetector providers.WebDetector
	Classifier  providers.Classifier
}

// New returns an Analyzer backed by the given provider collaborators.
func New(webDetector providers.WebDetector, classifier providers.Classifier) *Analyzer {
	return &Analyzer{
		WebDetector: webDetector,
		Classifier:  classifier,
	}
}

// Result is the response body of a successful analysis. Exactly one field
// is set, matching the requested analysis_type.
type Result struct {
	WebSearch      *fraud.WebVerdict           `json:"web_search,omitempty"`
	Exif           *fraud.ExifReport           `json:"exif,omitempty"`
	Classification *fraud.ClassificationResult `json:"classification,omitempty"`
}

// Analyze validates and decodes the image, then runs the requested strategy.
// Validation failures surface before any provider call so bad input never
// spends external quota.
func (a *Analyzer) Analyze(ctx context.Context, sourceType, source, analysisType string) (*Result, error) {
	switch analysisType {
	case TypeWebSearch, TypeExif, TypeClassification:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnalysisType, analysisType)
	}

	img, err := imaging.Validate(sourceType, source, config.MaxImageSize)
	if err != nil {
		return nil, err
	}

	switch analysisType {
	case TypeWebSearch:
		return a.webSearch(ctx, img)
	case TypeExif:
		return a.exif(img)
	default:
		return a.classification(ctx, img)
	}
}

func (a *Analyzer) webSearch(ctx context.Context, img *imaging.Image) (*Result, error) {
	set, err := a.WebDetector.DetectWeb(ctx, img.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: web detection: %v", ErrProvider, err)
	}

	verdict := fraud.ScoreWebMatches(*set, config.PartialMatchThreshold)
	return &Result{WebSearch: &verdict}, nil
}

func (a *Analyzer) exif(img *imaging.Image) (*Result, error) {
	rec, err := exif.Extract(img)
	if err != nil {
		return nil, err
	}

	report := fraud.ScoreExif(rec, config.ExifTimeTolerance)
	return &Result{Exif: &report}, nil
}

func (a *Analyzer) classification(ctx context.Context, img *imaging.Image) (*Result, error) {
	result, err := a.Classifier.Classify(ctx, img.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: classification: %v", ErrProvider, err)
	}

	return &Result{Classification: result}, nil
}

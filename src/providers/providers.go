// Package providers holds the external analysis collaborators. The rest of
// the service sees them only through the capability interfaces below, so
// fraud-logic tests can substitute deterministic fakes.
package providers

import (
	"context"

	"fraud-vision-api/src/fraud"
)

// WebDetector finds copies of an image already published on the web.
type WebDetector interface {
	DetectWeb(ctx context.Context, content []byte) (*fraud.WebMatchSet, error)
}

// Classifier runs an image through a deployed classification model.
type Classifier interface {
	Classify(ctx context.Context, content []byte) (*fraud.ClassificationResult, error)
}

package providers

import (
	"context"

	"fraud-vision-api/src/fraud"

	vision "cloud.google.com/go/vision/apiv1"
	pb "google.golang.org/genproto/googleapis/cloud/vision/v1"
)

// GoogleWebDetector performs web detection through the Cloud Vision API.
type GoogleWebDetector struct {
	client *vision.ImageAnnotatorClient
}

// NewGoogleWebDetector dials the Vision API using the ambient
// GOOGLE_APPLICATION_CREDENTIALS. The client is safe for concurrent use and
// lives for the process lifetime.
func NewGoogleWebDetector(ctx context.Context) (*GoogleWebDetector, error) {
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GoogleWebDetector{client: client}, nil
}

// DetectWeb submits the image bytes for web detection and reduces the
// annotation to the full/partial matching URL lists.
func (d *GoogleWebDetector) DetectWeb(ctx context.Context, content []byte) (*fraud.WebMatchSet, error) {
	image := &pb.Image{Content: content}

	detection, err := d.client.DetectWeb(ctx, image, nil)
	if err != nil {
		return nil, err
	}

	set := &fraud.WebMatchSet{}
	for _, img := range detection.GetFullMatchingImages() {
		set.FullMatches = append(set.FullMatches, img.GetUrl())
	}
	for _, img := range detection.GetPartialMatchingImages() {
		set.PartialMatches = append(set.PartialMatches, img.GetUrl())
	}

	return set, nil
}

// Close releases the underlying gRPC connection.
func (d *GoogleWebDetector) Close() error {
	return d.client.Close()
}

// Package fraud turns provider and metadata facts into fraud-relevant
// verdicts. Every function here is pure: no external calls, no randomness,
// identical input always yields identical output.
package fraud

import (
	"fmt"
	"strings"
	"time"

	"fraud-vision-api/src/exif"
)

// WebMatchSet is a web-search provider's answer for one image: the URLs of
// identical (full) and visually similar (partial) images found on the web.
type WebMatchSet struct {
	FullMatches    []string
	PartialMatches []string
}

// WebVerdict is the fraud verdict derived from a WebMatchSet.
type WebVerdict struct {
	IsFraud               bool     `json:"is_fraud"`
	MatchingImagesCount   int      `json:"matching_images_count"`
	FullMatchingImages    []string `json:"full_matching_images"`
	PartialMatchingImages []string `json:"partial_matching_images"`
}

// ScoreWebMatches flags an image as fraudulent when the web already hosts an
// identical copy, or more near-copies than partialThreshold allows. An empty
// match set is the canonical "no evidence of reuse" verdict, not an error.
func ScoreWebMatches(set WebMatchSet, partialThreshold int) WebVerdict {
	return WebVerdict{
		IsFraud:               len(set.FullMatches) > 0 || len(set.PartialMatches) > partialThreshold,
		MatchingImagesCount:   len(set.FullMatches),
		FullMatchingImages:    urlList(set.FullMatches),
		PartialMatchingImages: urlList(set.PartialMatches),
	}
}

// urlList copies matches into a non-nil slice so empty verdicts marshal as
// [] rather than null.
func urlList(urls []string) []string {
	out := make([]string, len(urls))
	copy(out, urls)
	return out
}

// Warning codes for EXIF manipulation signals. Each triggered condition is
// surfaced individually so a caller can see which signal fired.
const (
	WarnEditingSoftware   = "editing_software"
	WarnTimestampMismatch = "timestamp_mismatch"
	WarnMissingTimestamps = "missing_timestamps"
)

// Warning is a single manipulation signal raised by EXIF scoring.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ExifReport is the metadata verdict for one image: the extracted tags plus
// any manipulation warnings. Null tag fields mean the tag was absent.
type ExifReport struct {
	CameraModel       *string   `json:"camera_model"`
	Software          *string   `json:"software"`
	DateTimeOriginal  *string   `json:"datetime_original"`
	DateTimeDigitized *string   `json:"datetime_digitized"`
	Warnings          []Warning `json:"warnings"`
}

// exifTimeLayout is the timestamp format mandated by the EXIF standard.
const exifTimeLayout = "2006:01:02 15:04:05"

// editorSignatures are software-tag substrings that identify image editors
// as opposed to in-camera firmware strings.
var editorSignatures = []string{
	"photoshop",
	"lightroom",
	"gimp",
	"snapseed",
	"picsart",
	"pixelmator",
	"affinity",
	"paint.net",
	"luminar",
	"capture one",
}

// ScoreExif derives manipulation warnings from an EXIF record. Signals:
// a known editor in the software tag, capture and digitization timestamps
// further apart than tolerance, or a camera model with no timestamps at all.
func ScoreExif(rec *exif.Record, tolerance time.Duration) ExifReport {
	report := ExifReport{
		CameraModel:       rec.CameraModel,
		Software:          rec.Software,
		DateTimeOriginal:  rec.DateTimeOriginal,
		DateTimeDigitized: rec.DateTimeDigitized,
		Warnings:          make([]Warning, 0),
	}

	if rec.Software != nil {
		if editor, ok := matchEditor(*rec.Software); ok {
			report.Warnings = append(report.Warnings, Warning{
				Code:    WarnEditingSoftware,
				Message: fmt.Sprintf("image edited with software: %s (matched signature %q)", *rec.Software, editor),
			})
		}
	}

	if rec.DateTimeOriginal != nil && rec.DateTimeDigitized != nil {
		if timestampsDiverge(*rec.DateTimeOriginal, *rec.DateTimeDigitized, tolerance) {
			report.Warnings = append(report.Warnings, Warning{
				Code: WarnTimestampMismatch,
				Message: fmt.Sprintf("original capture time %q and digitization time %q do not match",
					*rec.DateTimeOriginal, *rec.DateTimeDigitized),
			})
		}
	}

	if rec.CameraModel != nil && rec.DateTimeOriginal == nil && rec.DateTimeDigitized == nil {
		report.Warnings = append(report.Warnings, Warning{
			Code:    WarnMissingTimestamps,
			Message: fmt.Sprintf("camera model %q is recorded but no capture timestamps are present", *rec.CameraModel),
		})
	}

	return report
}

func matchEditor(software string) (string, bool) {
	lower := strings.ToLower(software)
	for _, sig := range editorSignatures {
		if strings.Contains(lower, sig) {
			return sig, true
		}
	}
	return "", false
}

// timestampsDiverge compares two EXIF timestamps. When both parse, they
// diverge if further apart than tolerance; when either does not parse,
// plain string inequality decides.
func timestampsDiverge(original, digitized string, tolerance time.Duration) bool {
	t1, err1 := time.Parse(exifTimeLayout, original)
	t2, err2 := time.Parse(exifTimeLayout, digitized)
	if err1 != nil || err2 != nil {
		return original != digitized
	}

	diff := t1.Sub(t2)
	if diff < 0 {
		diff = -diff
	}
	return diff > tolerance
}

// Prediction is one label/confidence pair from the classification provider.
type Prediction struct {
	ID         string  `json:"id,omitempty"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ClassificationResult is the classification provider's output, reported
// as-is: classification is passed through, not judged.
type ClassificationResult struct {
	DeployedModelID  string       `json:"deployed_model_id"`
	ModelVersionID   string       `json:"model_version_id"`
	ModelDisplayName string       `json:"model_display_name"`
	Predictions      []Prediction `json:"predictions"`
}

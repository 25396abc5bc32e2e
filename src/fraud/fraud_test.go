package fraud

import (
	"encoding/json"
	"testing"
	"time"

	"fraud-vision-api/src/exif"
)

const testPartialThreshold = 3

func strPtr(s string) *string {
	return &s
}

// A provider that found nothing is the canonical no-evidence verdict.
func TestScoreWebMatchesEmpty(t *testing.T) {
	verdict := ScoreWebMatches(WebMatchSet{}, testPartialThreshold)

	if verdict.IsFraud {
		t.Error("empty match set must not be flagged as fraud")
	}
	if verdict.MatchingImagesCount != 0 {
		t.Errorf("expected count 0, got %d", verdict.MatchingImagesCount)
	}
	if verdict.FullMatchingImages == nil || verdict.PartialMatchingImages == nil {
		t.Error("match lists must be empty, not nil, so they marshal as []")
	}
	if len(verdict.FullMatchingImages) != 0 || len(verdict.PartialMatchingImages) != 0 {
		t.Error("expected both match lists empty")
	}
}

func TestScoreWebMatchesFullMatch(t *testing.T) {
	set := WebMatchSet{
		FullMatches:    []string{"https://example.com/copy.jpg"},
		PartialMatches: []string{},
	}

	verdict := ScoreWebMatches(set, testPartialThreshold)
	if !verdict.IsFraud {
		t.Error("any full match must flag the image as fraud")
	}
	if verdict.MatchingImagesCount != 1 {
		t.Errorf("expected count 1, got %d", verdict.MatchingImagesCount)
	}
}

func TestScoreWebMatchesPartialThreshold(t *testing.T) {
	partials := []string{"https://a.example/1", "https://a.example/2", "https://a.example/3"}

	verdict := ScoreWebMatches(WebMatchSet{PartialMatches: partials}, testPartialThreshold)
	if verdict.IsFraud {
		t.Error("partial matches at the threshold must not be flagged")
	}

	partials = append(partials, "https://a.example/4")
	verdict = ScoreWebMatches(WebMatchSet{PartialMatches: partials}, testPartialThreshold)
	if !verdict.IsFraud {
		t.Error("partial matches above the threshold must be flagged")
	}
	if verdict.MatchingImagesCount != 0 {
		t.Errorf("partial matches must not count as matching images, got %d", verdict.MatchingImagesCount)
	}
}

func TestScoreExifEmptyRecord(t *testing.T) {
	report := ScoreExif(&exif.Record{}, 0)

	if len(report.Warnings) != 0 {
		t.Errorf("empty record must produce zero warnings, got %v", report.Warnings)
	}
	if report.Warnings == nil {
		t.Error("warnings must be empty, not nil, so they marshal as []")
	}
	if report.CameraModel != nil || report.Software != nil {
		t.Error("absent tags must stay null in the report")
	}
}

func TestScoreExifEditingSoftware(t *testing.T) {
	rec := &exif.Record{Software: strPtr("Adobe Photoshop 24.1 (Windows)")}

	report := ScoreExif(rec, 0)
	if len(report.Warnings) != 1 || report.Warnings[0].Code != WarnEditingSoftware {
		t.Errorf("expected a single %s warning, got %v", WarnEditingSoftware, report.Warnings)
	}
}

// Camera firmware strings in the software tag are not editor signatures.
func TestScoreExifFirmwareSoftware(t *testing.T) {
	rec := &exif.Record{Software: strPtr("Canon EOS 5D Mark IV Firmware 1.3.1")}

	report := ScoreExif(rec, 0)
	if len(report.Warnings) != 0 {
		t.Errorf("firmware software tag must not warn, got %v", report.Warnings)
	}
}

func TestScoreExifTimestampMismatch(t *testing.T) {
	rec := &exif.Record{
		DateTimeOriginal:  strPtr("2023:06:01 10:00:00"),
		DateTimeDigitized: strPtr("2023:06:01 10:00:05"),
	}

	report := ScoreExif(rec, 0)
	if len(report.Warnings) != 1 || report.Warnings[0].Code != WarnTimestampMismatch {
		t.Errorf("expected a single %s warning, got %v", WarnTimestampMismatch, report.Warnings)
	}

	// Within tolerance the same pair is clean.
	report = ScoreExif(rec, 10*time.Second)
	if len(report.Warnings) != 0 {
		t.Errorf("divergence within tolerance must not warn, got %v", report.Warnings)
	}
}

func TestScoreExifUnparseableTimestamps(t *testing.T) {
	rec := &exif.Record{
		DateTimeOriginal:  strPtr("not a timestamp"),
		DateTimeDigitized: strPtr("also not a timestamp"),
	}

	report := ScoreExif(rec, time.Hour)
	if len(report.Warnings) != 1 || report.Warnings[0].Code != WarnTimestampMismatch {
		t.Errorf("unequal unparseable timestamps must warn, got %v", report.Warnings)
	}

	rec.DateTimeDigitized = strPtr("not a timestamp")
	report = ScoreExif(rec, time.Hour)
	if len(report.Warnings) != 0 {
		t.Errorf("identical unparseable timestamps must not warn, got %v", report.Warnings)
	}
}

// A camera model without any capture timestamps is inconsistent metadata.
func TestScoreExifMissingTimestamps(t *testing.T) {
	rec := &exif.Record{CameraModel: strPtr("Canon EOS 5D")}

	report := ScoreExif(rec, 0)
	if len(report.Warnings) != 1 || report.Warnings[0].Code != WarnMissingTimestamps {
		t.Errorf("expected a single %s warning, got %v", WarnMissingTimestamps, report.Warnings)
	}
}

// Multiple triggered conditions surface as separate warnings.
func TestScoreExifIndependentWarnings(t *testing.T) {
	rec := &exif.Record{
		Software:          strPtr("GIMP 2.10"),
		DateTimeOriginal:  strPtr("2023:06:01 10:00:00"),
		DateTimeDigitized: strPtr("2023:07:01 10:00:00"),
	}

	report := ScoreExif(rec, 0)
	if len(report.Warnings) != 2 {
		t.Fatalf("expected two independent warnings, got %v", report.Warnings)
	}
	if report.Warnings[0].Code != WarnEditingSoftware || report.Warnings[1].Code != WarnTimestampMismatch {
		t.Errorf("unexpected warning codes: %v", report.Warnings)
	}
}

// Fraud scoring must be reproducible: identical input, byte-identical output.
func TestScoringDeterminism(t *testing.T) {
	rec := &exif.Record{
		CameraModel:       strPtr("Canon EOS 5D"),
		Software:          strPtr("Adobe Lightroom"),
		DateTimeOriginal:  strPtr("2023:06:01 10:00:00"),
		DateTimeDigitized: strPtr("2023:06:02 10:00:00"),
	}

	first, err := json.Marshal(ScoreExif(rec, time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(ScoreExif(rec, time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("exif scoring produced different output for identical input")
	}

	set := WebMatchSet{
		FullMatches:    []string{"https://example.com/a", "https://example.com/b"},
		PartialMatches: []string{"https://example.com/c"},
	}
	v1, _ := json.Marshal(ScoreWebMatches(set, testPartialThreshold))
	v2, _ := json.Marshal(ScoreWebMatches(set, testPartialThreshold))
	if string(v1) != string(v2) {
		t.Error("web scoring produced different output for identical input")
	}
}

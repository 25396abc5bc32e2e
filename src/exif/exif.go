package exif

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"fraud-vision-api/src/imaging"

	goexif "github.com/rwcarlsen/goexif/exif"
)

// ErrCorruptMetadata is returned when an image carries an EXIF container
// that cannot be parsed. Distinct from "no metadata present", which is a
// normal, successful empty record.
var ErrCorruptMetadata = errors.New("corrupt exif metadata")

// Record holds the fraud-relevant EXIF tags of an image. A nil field means
// the tag was not written by the camera, which is a valid state.
type Record struct {
	CameraModel       *string
	Software          *string
	DateTimeOriginal  *string
	DateTimeDigitized *string
}

// Extract reads the EXIF tags from a validated image. Images without an
// EXIF block (PNGs, stripped JPEGs) yield an empty Record, not an error.
func Extract(img *imaging.Image) (*Record, error) {
	x, err := goexif.Decode(bytes.NewReader(img.Data))
	if err != nil {
		if x == nil {
			if isMissingExif(err) {
				return &Record{}, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrCorruptMetadata, err)
		}
		// Partial decode: goexif still exposes the tags it managed to read.
	}

	return &Record{
		CameraModel:       tagString(x, goexif.Model),
		Software:          tagString(x, goexif.Software),
		DateTimeOriginal:  tagString(x, goexif.DateTimeOriginal),
		DateTimeDigitized: tagString(x, goexif.DateTimeDigitized),
	}, nil
}

// isMissingExif reports whether a goexif decode error means the image simply
// carries no EXIF block, as opposed to a corrupt one.
func isMissingExif(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	return strings.Contains(err.Error(), "failed to find exif intro marker")
}

func tagString(x *goexif.Exif, name goexif.FieldName) *string {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	s, err := tag.StringVal()
	if err != nil {
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, "\x00"))
	if s == "" {
		return nil
	}
	return &s
}

package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SourceTypeBase64 is the only supported image source encoding.
const SourceTypeBase64 = "base64"

var (
	// ErrUnsupportedSourceType is returned when the source_type is not base64.
	ErrUnsupportedSourceType = errors.New("unsupported source type")

	// ErrDecode is returned when the payload is not valid base64 or does not
	// decode to a recognized image format.
	ErrDecode = errors.New("image decode failed")

	// ErrImageTooLarge is returned when the decoded payload exceeds the
	// configured maximum size.
	ErrImageTooLarge = errors.New("image too large")
)

// Image is a validated, decoded image payload. It is request-scoped: created
// by Validate and discarded when the request completes.
type Image struct {
	Data   []byte
	Format string
	Size   int
}

// Validate decodes a base64 image payload and enforces the size ceiling and
// format check. The size check runs before format sniffing so oversized
// payloads are rejected before any further work.
func Validate(sourceType, source string, maxSize int) (*Image, error) {
	if sourceType != SourceTypeBase64 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSourceType, sourceType)
	}

	data, err := base64.StdEncoding.DecodeString(cleanBase64(source))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload: %v", ErrDecode, err)
	}

	if len(data) > maxSize {
		return nil, fmt.Errorf("%w: image size (%d bytes) exceeds maximum allowed size of %d bytes",
			ErrImageTooLarge, len(data), maxSize)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: unrecognized image format: %v", ErrDecode, err)
	}

	return &Image{
		Data:   data,
		Format: format,
		Size:   len(data),
	}, nil
}

// cleanBase64 strips line breaks and surrounding whitespace that commonly
// leak into base64 payloads copied across systems.
func cleanBase64(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	return strings.TrimSpace(s)
}

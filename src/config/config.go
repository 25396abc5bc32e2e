package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

var (
	// DefaultPort is the default port to expose the API server.
	DefaultPort int = 8080

	// Port is the port the API server listens on.
	Port int

	// LogLevel is the level of logging for the application.
	LogLevel string

	// MaxImageSize is the hard ceiling, in bytes, on a decoded image payload.
	// Enforced before any provider call is made.
	MaxImageSize int

	// PartialMatchThreshold is the number of partial web matches above which
	// an image is flagged as fraudulent even without a full match.
	PartialMatchThreshold int

	// ExifTimeTolerance is the maximum allowed difference between the
	// original-capture and digitization timestamps before a warning fires.
	ExifTimeTolerance time.Duration

	// VertexProject is the Google Cloud project hosting the classification endpoint.
	VertexProject string

	// VertexLocation is the region of the classification endpoint.
	VertexLocation string

	// VertexEndpointID identifies the deployed classification model endpoint.
	VertexEndpointID string
)

// Init reads configuration from the environment. It must be called once at
// startup; values are constant for the process lifetime.
func Init() error {
	missingEnvErr := func(envVar string) error {
		return fmt.Errorf("%s not found in environment", envVar)
	}

	var err error
	if Port, err = getEnvInt("FRAUD_PORT", DefaultPort); err != nil {
		return err
	}

	LogLevel = getEnvWithDefault("FRAUD_LOG_LEVEL", strconv.Itoa(int(zerolog.InfoLevel)))

	if MaxImageSize, err = getEnvInt("FRAUD_MAX_IMAGE_SIZE", 1_500_000); err != nil {
		return err
	}

	if PartialMatchThreshold, err = getEnvInt("FRAUD_PARTIAL_MATCH_THRESHOLD", 10); err != nil {
		return err
	}

	tolerance := getEnvWithDefault("FRAUD_EXIF_TIME_TOLERANCE", "0s")
	if ExifTimeTolerance, err = time.ParseDuration(tolerance); err != nil {
		return fmt.Errorf("FRAUD_EXIF_TIME_TOLERANCE is not a valid duration: %w", err)
	}

	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		return missingEnvErr("GOOGLE_APPLICATION_CREDENTIALS")
	}

	if VertexProject = os.Getenv("FRAUD_VERTEX_PROJECT"); VertexProject == "" {
		return missingEnvErr("FRAUD_VERTEX_PROJECT")
	}

	VertexLocation = getEnvWithDefault("FRAUD_VERTEX_LOCATION", "us-central1")

	if VertexEndpointID = os.Getenv("FRAUD_VERTEX_ENDPOINT_ID"); VertexEndpointID == "" {
		return missingEnvErr("FRAUD_VERTEX_ENDPOINT_ID")
	}

	return nil
}

func getEnvWithDefault(name string, def string) string {
	res, found := os.LookupEnv(name)
	if !found {
		return def
	}
	return res
}

func getEnvInt(name string, def int) (int, error) {
	res, found := os.LookupEnv(name)
	if !found {
		return def, nil
	}
	n, err := strconv.Atoi(res)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid integer: %w", name, err)
	}
	return n, nil
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"fraud-vision-api/src/analyze"
	"fraud-vision-api/src/exif"
	"fraud-vision-api/src/imaging"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logger zerolog.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

// Machine-readable error kinds carried in every failure response.
const (
	KindInputError            = "InputError"
	KindUnsupportedSourceType = "UnsupportedSourceType"
	KindDecodeError           = "DecodeError"
	KindImageTooLarge         = "ImageTooLarge"
	KindMetadataParseError    = "MetadataParseError"
	KindProviderError         = "ProviderError"
	KindInternalError         = "InternalError"
)

// ErrorRes is a JSON response containing an error kind and message from the API.
type ErrorRes struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Server is an instance of the fraud analysis API server.
type Server struct {
	router   *mux.Router
	analyzer *analyze.Analyzer
}

// New builds the server around an analyzer and wires up the routes.
func New(analyzer *analyze.Analyzer) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		analyzer: analyzer,
	}

	s.router.Use(addCorsHeaders)
	s.router.Use(requestLogger)
	s.router.Use(recoverPanic)
	s.router.HandleFunc("/health", health).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/api/v1.1/analyze", s.handleAnalyze).Methods("POST", "OPTIONS")

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run exposes the server on the given port and blocks until shutdown.
func (s *Server) Run(port int) error {
	listenAddr := fmt.Sprintf(":%d", port)
	logger.Info().Msgf("web server now listening on %s", listenAddr)
	return http.ListenAndServe(listenAddr, s.router)
}

func writeError(code int, kind string, message string, w http.ResponseWriter) {
	logger.Info().Str("kind", kind).Msg(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	res := ErrorRes{
		Error:   kind,
		Message: message,
	}
	json.NewEncoder(w).Encode(res)
}

// classifyError maps an analysis failure to an HTTP status and error kind.
// Client-caused failures are 400s; provider and internal failures are 500s.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, imaging.ErrUnsupportedSourceType):
		return http.StatusBadRequest, KindUnsupportedSourceType
	case errors.Is(err, imaging.ErrDecode):
		return http.StatusBadRequest, KindDecodeError
	case errors.Is(err, imaging.ErrImageTooLarge):
		return http.StatusBadRequest, KindImageTooLarge
	case errors.Is(err, exif.ErrCorruptMetadata):
		return http.StatusBadRequest, KindMetadataParseError
	case errors.Is(err, analyze.ErrUnknownAnalysisType):
		return http.StatusBadRequest, KindInputError
	case errors.Is(err, analyze.ErrProvider):
		return http.StatusInternalServerError, KindProviderError
	default:
		return http.StatusInternalServerError, KindInternalError
	}
}

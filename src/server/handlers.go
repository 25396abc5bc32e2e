package server

import (
	"encoding/json"
	"net/http"
)

// maxRequestBytes caps the raw request body. It leaves headroom above the
// decoded image ceiling for base64 overhead and the JSON envelope.
const maxRequestBytes = 4 << 20

// AnalyzeReq is the form of an incoming JSON payload requesting a fraud
// analysis of a single image.
type AnalyzeReq struct {
	SourceType   string `json:"source_type"`
	Source       string `json:"source"`
	AnalysisType string `json:"analysis_type"`
}

func health(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(200)
	w.Write([]byte("All Good ☮️"))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxRequestBytes)

	var payload AnalyzeReq
	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&payload); err != nil {
		writeError(400, KindInputError, "JSON body missing or malformed", w)
		return
	}

	if payload.SourceType == "" {
		writeError(400, KindInputError, "source_type cannot be empty", w)
		return
	}
	if payload.Source == "" {
		writeError(400, KindInputError, "source cannot be empty", w)
		return
	}
	if payload.AnalysisType == "" {
		writeError(400, KindInputError, "analysis_type cannot be empty", w)
		return
	}

	logger.Info().Msgf("received request for analysis type: %s", payload.AnalysisType)

	result, err := s.analyzer.Analyze(req.Context(), payload.SourceType, payload.Source, payload.AnalysisType)
	if err != nil {
		code, kind := classifyError(err)
		writeError(code, kind, err.Error(), w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

package server

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// maxRequestBytes bounds the /parse-links request body.
const maxRequestBytes = 1 << 20

type parseLinksRequest struct {
	Links []string `json:"links"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleParseLinks(w http.ResponseWriter, r *http.Request) {
	var req parseLinksRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(s.log, w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	results := s.batch.Run(r.Context(), req.Links)
	writeJSON(s.log, w, http.StatusOK, results)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(s.log, w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON sends v with status. The header is already out when encoding
// fails, so the failure is only logged.
func writeJSON(log logrus.FieldLogger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).WithField("status", status).Warn("writing response failed")
	}
}

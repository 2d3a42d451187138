package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgallion1/bilingual/internal/translate"
)

// handleTranslate relays one translation request to the configured upstream
// service so browser clients never hold its credentials.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translate.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Q) == "" {
		jsonError(w, "q is required", http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = "auto"
	}
	if req.Target == "" {
		req.Target = "en"
	}

	out, err := s.relay.Translate(r.Context(), req.Q, req.Source, req.Target)
	if err != nil {
		s.log.Warn("relay translation failed", "source", req.Source, "target", req.Target, "error", err)
		jsonError(w, "Internal Error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, translate.Response{Text: out})
}

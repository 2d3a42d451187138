package api

import (
	"net/http"
)

func (s *Server) handleTranslateStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "translation stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"provider": s.cfg.Provider,
		"stats":    s.stats.Snapshot(),
	})
}

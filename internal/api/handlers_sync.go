package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/bilingual/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

type syncResponse struct {
	BatchID string `json:"batch_id,omitempty"`
	Status  string `json:"status"`
	PollURL string `json:"poll_url,omitempty"`
	Marked  int    `json:"marked,omitempty"`
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	b, err := s.session.RequestSync()
	s.respondSync(w, b, err, 0)
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	b := s.session.Batch(chi.URLParam(r, "batchID"))
	if b == nil {
		jsonError(w, "batch not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, b.Snapshot())
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	i, ok := unitIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		Locked *bool `json:"locked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Locked == nil {
		jsonError(w, "locked is required", http.StatusBadRequest)
		return
	}
	if !s.session.SetLock(i, *req.Locked) {
		jsonError(w, "unit not found", http.StatusNotFound)
		return
	}
	s.respondUnits(w)
}

// handleRefreshOne forces one unit back to stale and starts a sync, or queues
// one behind the running batch. A locked unit is not marked.
func (s *Server) handleRefreshOne(w http.ResponseWriter, r *http.Request) {
	i, ok := unitIndex(w, r)
	if !ok {
		return
	}
	if i >= len(s.session.Units()) {
		jsonError(w, "unit not found", http.StatusNotFound)
		return
	}
	marked := 0
	if s.session.MarkStale(i) {
		marked = 1
	}
	s.respondRefresh(w, marked)
}

func (s *Server) handleRefreshAll(w http.ResponseWriter, r *http.Request) {
	marked := s.session.MarkAllStale()
	s.respondRefresh(w, marked)
}

func (s *Server) respondRefresh(w http.ResponseWriter, marked int) {
	b, queued := s.session.QueueSync()
	if queued {
		writeJSON(w, http.StatusAccepted, syncResponse{Status: "queued", Marked: marked})
		return
	}
	s.respondSync(w, b, nil, marked)
}

func (s *Server) respondSync(w http.ResponseWriter, b *pipeline.Batch, err error, marked int) {
	if errors.Is(err, pipeline.ErrBatchActive) {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if b == nil {
		writeJSON(w, http.StatusOK, syncResponse{Status: "idle", Marked: marked})
		return
	}
	writeJSON(w, http.StatusAccepted, syncResponse{
		BatchID: b.ID,
		Status:  string(pipeline.BatchRunning),
		PollURL: "/api/sync/" + b.ID,
		Marked:  marked,
	})
}

func unitIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || i < 0 {
		jsonError(w, "invalid unit index", http.StatusBadRequest)
		return 0, false
	}
	return i, true
}

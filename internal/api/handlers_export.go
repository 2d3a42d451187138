package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/dgallion1/bilingual/internal/export"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := export.Options{
		Title:      s.session.Document().Title,
		SourceLang: s.cfg.SourceLang,
		TargetLang: s.cfg.TargetLang,
	}
	if t := r.URL.Query().Get("title"); t != "" {
		opts.Title = t
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, s.session.Units(), opts); err != nil {
		s.log.Error("export failed", "format", format, "error", err)
		jsonError(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	w.Write(buf.Bytes())
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/bilingual/internal/config"
	"github.com/dgallion1/bilingual/internal/pipeline"
	"github.com/dgallion1/bilingual/internal/translate"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API over one live bilingual session.
type Server struct {
	router  chi.Router
	session *pipeline.Session
	relay   translate.Translator
	stats   *translate.Stats
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server. relay serves
// POST /api/translate; stats may be nil.
func NewServer(session *pipeline.Session, relay translate.Translator, stats *translate.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		session: session,
		relay:   relay,
		stats:   stats,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Translation relay, callable from browsers.
	r.Group(func(r chi.Router) {
		r.Use(CORS)
		r.Options("/api/translate", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		r.Group(func(r chi.Router) {
			if s.cfg.APIKey != "" {
				r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
			}
			r.Post("/api/translate", s.handleTranslate)
		})
	})

	// Session endpoints.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/state", s.handleState)
		r.Get("/api/units", s.handleUnits)

		r.Put("/api/document", s.handlePutDocument)
		r.Post("/api/document/import", s.handleImport)
		r.Delete("/api/document", s.handleResetDocument)
		r.Put("/api/mode", s.handleSetMode)
		r.Put("/api/autosync", s.handleSetAutoSync)

		r.Post("/api/sync", s.handleSync)
		r.Get("/api/sync/{batchID}", s.handleSyncStatus)
		r.Post("/api/units/{index}/lock", s.handleLock)
		r.Post("/api/units/{index}/refresh", s.handleRefreshOne)
		r.Post("/api/units/refresh", s.handleRefreshAll)

		r.Get("/api/export/{format}", s.handleExport)
		r.Get("/api/stats/translate", s.handleTranslateStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

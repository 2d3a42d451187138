package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/bilingual/internal/api"
	"github.com/dgallion1/bilingual/internal/config"
	"github.com/dgallion1/bilingual/internal/pipeline"
	"github.com/dgallion1/bilingual/internal/translate"
)

type closer interface {
	Close()
}

func main() {
	cfg, err := config.LoadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize translators.
	opts := cfg.TranslateOptions()
	provider, err := translate.New(opts)
	if err != nil {
		log.Error("init translator", "provider", cfg.Provider, "error", err)
		os.Exit(1)
	}
	stats := translate.NewStats(time.Hour)
	translator := translate.Wrap(provider, opts, log.With("component", "translate"), stats)

	relayBase := translate.Relay(opts)
	relay := translate.Wrap(relayBase, opts, log.With("component", "relay"), nil)

	// Initialize session.
	session := pipeline.NewSession(translator, log.With("component", "session"), cfg.SessionOptions())
	session.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(session, relay, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		session.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		for _, t := range []translate.Translator{provider, relayBase} {
			if c, ok := t.(closer); ok {
				c.Close()
			}
		}
	}()

	log.Info("starting bilingual server",
		"port", cfg.Port,
		"provider", cfg.Provider,
		"target", cfg.TargetLang,
		"mode", cfg.SegmentMode,
		"auto_sync", cfg.AutoSync,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

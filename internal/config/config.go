package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/bilingual/internal/pipeline"
	"github.com/dgallion1/bilingual/internal/segment"
	"github.com/dgallion1/bilingual/internal/translate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Translation
	Provider            string        `yaml:"provider"`
	SourceLang          string        `yaml:"source_lang"`
	TargetLang          string        `yaml:"target_lang"`
	LibreEndpoint       string        `yaml:"libre_endpoint"`
	LibreAPIKey         string        `yaml:"libre_api_key"`
	BaiduAppID          string        `yaml:"baidu_app_id"`
	BaiduSecret         string        `yaml:"baidu_secret"`
	BackendURL          string        `yaml:"backend_url"`
	CatalogPath         string        `yaml:"catalog_path"`
	TranslateTimeout    time.Duration `yaml:"translate_timeout"`
	TranslateMaxRetries int           `yaml:"translate_max_retries"`
	TranslateMaxChars   int           `yaml:"translate_max_chars"`

	// Session
	SegmentMode     string        `yaml:"segment_mode"`
	AutoSync        bool          `yaml:"auto_sync"`
	SyncDebounce    time.Duration `yaml:"sync_debounce"`
	SyncConcurrency int           `yaml:"sync_concurrency"`
	ProgressLinger  time.Duration `yaml:"progress_linger"`
	BatchTTL        time.Duration `yaml:"batch_ttl"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`

	LogLevel string `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		Port:                 "8090",
		Provider:             translate.ProviderDummy,
		SourceLang:           "auto",
		TargetLang:           "en",
		LibreEndpoint:        translate.DefaultLibreEndpoint,
		TranslateTimeout:     30 * time.Second,
		TranslateMaxChars:    translate.DefaultMaxChars,
		SegmentMode:          string(segment.ModeSentence),
		AutoSync:             true,
		SyncDebounce:         700 * time.Millisecond,
		SyncConcurrency:      pipeline.DefaultConcurrency,
		ProgressLinger:       400 * time.Millisecond,
		BatchTTL:             1 * time.Hour,
		MaxUploadBytes:       10485760, // 10MB
		PDFFallbackPdftotext: true,
		LogLevel:             "info",
	}
}

// Load reads configuration from the environment.
func Load() Config {
	cfg := defaults()
	cfg.applyEnv()
	cfg.normalize()
	return cfg
}

// LoadFile reads a YAML file and then applies environment overrides.
// An empty path behaves like Load.
func LoadFile(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = envOr("PORT", c.Port)
	c.APIKey = envOr("API_KEY", c.APIKey)

	c.Provider = envOr("PROVIDER", c.Provider)
	c.SourceLang = envOr("SOURCE_LANG", c.SourceLang)
	c.TargetLang = envOr("TARGET_LANG", c.TargetLang)
	c.LibreEndpoint = envOr("LIBRE_ENDPOINT", c.LibreEndpoint)
	c.LibreAPIKey = envOr("LIBRE_API_KEY", c.LibreAPIKey)
	c.BaiduAppID = envOr("BAIDU_APP_ID", c.BaiduAppID)
	c.BaiduSecret = envOr("BAIDU_SECRET", c.BaiduSecret)
	c.BackendURL = envOr("BACKEND_URL", c.BackendURL)
	c.CatalogPath = envOr("CATALOG_PATH", c.CatalogPath)
	c.TranslateTimeout = envDuration("TRANSLATE_TIMEOUT", c.TranslateTimeout)
	c.TranslateMaxRetries = envInt("TRANSLATE_MAX_RETRIES", c.TranslateMaxRetries)
	c.TranslateMaxChars = envInt("TRANSLATE_MAX_CHARS", c.TranslateMaxChars)

	c.SegmentMode = envOr("SEGMENT_MODE", c.SegmentMode)
	c.AutoSync = envBool("AUTO_SYNC", c.AutoSync)
	c.SyncDebounce = envDuration("SYNC_DEBOUNCE", c.SyncDebounce)
	c.SyncConcurrency = envInt("SYNC_CONCURRENCY", c.SyncConcurrency)
	c.ProgressLinger = envDuration("PROGRESS_LINGER", c.ProgressLinger)
	c.BatchTTL = envDuration("BATCH_TTL", c.BatchTTL)

	c.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", c.PDFFallbackPdftotext)
	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
}

func (c *Config) normalize() {
	d := defaults()
	if c.SyncConcurrency <= 0 {
		c.SyncConcurrency = d.SyncConcurrency
	}
	if c.SyncDebounce < 0 {
		c.SyncDebounce = d.SyncDebounce
	}
	if c.ProgressLinger < 0 {
		c.ProgressLinger = 0
	}
	if c.TranslateTimeout <= 0 {
		c.TranslateTimeout = d.TranslateTimeout
	}
	if c.TranslateMaxRetries < 0 {
		c.TranslateMaxRetries = 0
	}
	if c.TranslateMaxChars < 0 {
		c.TranslateMaxChars = 0
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.BatchTTL <= 0 {
		c.BatchTTL = d.BatchTTL
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
}

func (c Config) Validate() error {
	if _, err := segment.ParseMode(c.SegmentMode); err != nil {
		return fmt.Errorf("SEGMENT_MODE: %w", err)
	}
	if c.TargetLang == "" || c.TargetLang == "auto" {
		return fmt.Errorf("TARGET_LANG must name a language")
	}
	switch c.Provider {
	case translate.ProviderDummy, translate.ProviderLibre:
	case translate.ProviderBaidu:
		if c.BaiduAppID == "" || c.BaiduSecret == "" {
			return fmt.Errorf("BAIDU_APP_ID and BAIDU_SECRET are required for the baidu provider")
		}
	case translate.ProviderBackend:
		if c.BackendURL == "" {
			return fmt.Errorf("BACKEND_URL is required for the backend provider")
		}
	case translate.ProviderCatalog:
		if c.CatalogPath == "" {
			return fmt.Errorf("CATALOG_PATH is required for the catalog provider")
		}
	default:
		return fmt.Errorf("unknown PROVIDER %q", c.Provider)
	}
	return nil
}

// TranslateOptions returns the provider settings.
func (c Config) TranslateOptions() translate.Options {
	return translate.Options{
		Provider:      c.Provider,
		LibreEndpoint: c.LibreEndpoint,
		LibreAPIKey:   c.LibreAPIKey,
		BaiduAppID:    c.BaiduAppID,
		BaiduSecret:   c.BaiduSecret,
		BackendURL:    c.BackendURL,
		CatalogPath:   c.CatalogPath,
		Timeout:       c.TranslateTimeout,
		MaxRetries:    c.TranslateMaxRetries,
		MaxChars:      c.TranslateMaxChars,
	}
}

// SessionOptions returns the live session settings.
func (c Config) SessionOptions() pipeline.Options {
	mode, err := segment.ParseMode(c.SegmentMode)
	if err != nil {
		mode = segment.ModeSentence
	}
	return pipeline.Options{
		Mode:           mode,
		SourceLang:     c.SourceLang,
		TargetLang:     c.TargetLang,
		AutoSync:       c.AutoSync,
		Debounce:       c.SyncDebounce,
		Concurrency:    c.SyncConcurrency,
		ProgressLinger: c.ProgressLinger,
		BatchTTL:       c.BatchTTL,
	}
}

// SlogLevel maps LogLevel onto a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

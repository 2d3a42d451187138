package translate

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Provider names accepted by New.
const (
	ProviderDummy   = "dummy"
	ProviderLibre   = "libre"
	ProviderBaidu   = "baidu"
	ProviderBackend = "backend"
	ProviderCatalog = "catalog"
)

// Options selects and configures a provider.
type Options struct {
	Provider      string
	LibreEndpoint string
	LibreAPIKey   string
	BaiduAppID    string
	BaiduSecret   string
	BaiduEndpoint string
	BackendURL    string
	CatalogPath   string
	Timeout       time.Duration
	MaxRetries    int
	MaxChars      int
}

// New builds the translator named by opts.Provider.
func New(opts Options) (Translator, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderDummy:
		return Dummy{}, nil
	case ProviderLibre:
		return NewLibre(opts.LibreEndpoint, opts.LibreAPIKey, opts.Timeout), nil
	case ProviderBaidu:
		b, err := NewBaidu(opts.BaiduAppID, opts.BaiduSecret, opts.BaiduEndpoint, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return b, nil
	case ProviderBackend:
		b, err := NewBackend(opts.BackendURL, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return b, nil
	case ProviderCatalog:
		c, err := NewCatalog(opts.CatalogPath)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", opts.Provider)
	}
}

// Relay picks the upstream used by the backend translate endpoint: Baidu
// when credentials are configured, LibreTranslate otherwise.
func Relay(opts Options) Translator {
	if opts.BaiduAppID != "" && opts.BaiduSecret != "" {
		if b, err := NewBaidu(opts.BaiduAppID, opts.BaiduSecret, opts.BaiduEndpoint, opts.Timeout); err == nil {
			return b
		}
	}
	return NewLibre(opts.LibreEndpoint, opts.LibreAPIKey, opts.Timeout)
}

// Wrap layers latency recording, retries and request-size chunking around a
// provider. stats may be nil.
func Wrap(base Translator, opts Options, log *slog.Logger, stats *Stats) Translator {
	t := base
	if stats != nil {
		t = Instrument(t, stats)
	}
	t = WithRetry(t, opts.MaxRetries, log)
	return WithChunking(t, opts.MaxChars)
}

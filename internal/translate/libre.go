package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultLibreEndpoint is the public LibreTranslate instance.
const DefaultLibreEndpoint = "https://libretranslate.de/translate"

// Libre calls a LibreTranslate-compatible JSON API.
type Libre struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewLibre(endpoint, apiKey string, timeout time.Duration) *Libre {
	return &Libre{
		endpoint:   orDefault(endpoint, DefaultLibreEndpoint),
		apiKey:     apiKey,
		httpClient: newHTTPClient(timeout),
	}
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (l *Libre) Translate(ctx context.Context, text, source, target string) (string, error) {
	body, err := postJSON(ctx, l.httpClient, l.endpoint, libreRequest{
		Q:      text,
		Source: orDefault(source, "auto"),
		Target: orDefault(target, "en"),
		Format: "text",
		APIKey: l.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("libretranslate: %w", err)
	}

	// Some deployments answer with a one-element array.
	var resp libreResponse
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		var list []libreResponse
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return "", fmt.Errorf("libretranslate: decode response: %w", err)
		}
		if len(list) > 0 {
			resp = list[0]
		}
	} else if err := json.Unmarshal(trimmed, &resp); err != nil {
		return "", fmt.Errorf("libretranslate: decode response: %w", err)
	}
	if resp.TranslatedText == "" {
		return "", fmt.Errorf("libretranslate: unexpected response: %s", truncate(string(body), 200))
	}
	return resp.TranslatedText, nil
}

// Close releases idle connections.
func (l *Libre) Close() {
	l.httpClient.CloseIdleConnections()
}

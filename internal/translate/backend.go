package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Backend calls a translation relay that accepts {q, source, target} and
// answers {text} or {translatedText}, such as this service's own
// POST /api/translate.
type Backend struct {
	url        string
	httpClient *http.Client
}

func NewBackend(url string, timeout time.Duration) (*Backend, error) {
	if url == "" {
		return nil, errors.New("backend: url is required")
	}
	return &Backend{url: url, httpClient: newHTTPClient(timeout)}, nil
}

// Request is the relay request body.
type Request struct {
	Q      string `json:"q"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}

// Response is the relay response body.
type Response struct {
	Text           string `json:"text,omitempty"`
	TranslatedText string `json:"translatedText,omitempty"`
}

func (b *Backend) Translate(ctx context.Context, text, source, target string) (string, error) {
	body, err := postJSON(ctx, b.httpClient, b.url, Request{Q: text, Source: source, Target: target})
	if err != nil {
		return "", fmt.Errorf("backend: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("backend: decode response: %w", err)
	}
	out := resp.Text
	if out == "" {
		out = resp.TranslatedText
	}
	if out == "" {
		return "", errors.New("backend: bad response")
	}
	return out, nil
}

// Close releases idle connections.
func (b *Backend) Close() {
	b.httpClient.CloseIdleConnections()
}

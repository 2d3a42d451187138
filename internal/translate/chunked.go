package translate

import (
	"context"
	"fmt"

	"github.com/dgallion1/bilingual/internal/chunker"
)

// DefaultMaxChars bounds a single upstream request.
const DefaultMaxChars = 4500

// Chunked splits texts longer than maxChars into paragraph and sentence
// pieces, translates them in order and rejoins the results.
type Chunked struct {
	next     Translator
	maxChars int
}

// WithChunking wraps t. maxChars <= 0 returns t unchanged.
func WithChunking(t Translator, maxChars int) Translator {
	if maxChars <= 0 {
		return t
	}
	return &Chunked{next: t, maxChars: maxChars}
}

func (c *Chunked) Translate(ctx context.Context, text, source, target string) (string, error) {
	pieces := chunker.Split(text, c.maxChars)
	if len(pieces) == 1 {
		return c.next.Translate(ctx, text, source, target)
	}

	out := make([]string, len(pieces))
	for i, p := range pieces {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		res, err := c.next.Translate(ctx, p.Text, source, target)
		if err != nil {
			return "", fmt.Errorf("piece %d/%d: %w", i+1, len(pieces), err)
		}
		out[i] = res
	}
	return chunker.Join(pieces, out), nil
}

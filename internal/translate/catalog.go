package translate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/leonelquinteros/gotext"
)

// Catalog answers from gettext PO files, acting as an offline translation
// memory. Path is either a single .po file used for every target, or a
// directory holding one <target>.po per language.
type Catalog struct {
	path  string
	dir   bool
	mu    sync.Mutex
	files map[string]*gotext.Po
}

func NewCatalog(path string) (*Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog: path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c := &Catalog{path: path, dir: info.IsDir(), files: make(map[string]*gotext.Po)}
	if !c.dir {
		if _, err := c.load(""); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewCatalogFromBytes builds a single-file catalog from PO content.
func NewCatalogFromBytes(data []byte) *Catalog {
	po := gotext.NewPo()
	po.Parse(data)
	return &Catalog{files: map[string]*gotext.Po{"": po}}
}

func (c *Catalog) Translate(_ context.Context, text, _, target string) (string, error) {
	key := ""
	if c.dir {
		key = target
	}
	po, err := c.load(key)
	if err != nil {
		return "", err
	}
	msgid := strings.TrimSpace(text)
	out := po.Get(msgid)
	if out == "" || out == msgid {
		return "", fmt.Errorf("%w: %q", ErrNotTranslated, truncate(msgid, 60))
	}
	return out, nil
}

func (c *Catalog) load(key string) (*gotext.Po, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if po, ok := c.files[key]; ok {
		return po, nil
	}

	file := c.path
	if c.dir {
		file = filepath.Join(c.path, key+".po")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	po := gotext.NewPo()
	po.Parse(data)
	c.files[key] = po
	return po, nil
}

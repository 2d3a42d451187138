package doctree

import (
	"crypto/sha256"
	"fmt"
)

// Status is the translation state of a Unit.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusStale       Status = "stale"
	StatusTranslating Status = "translating"
	StatusFresh       Status = "fresh"
	StatusError       Status = "error"
)

// Unit is one translatable slice of the document with its cached translation.
// Units are replaced whole, never edited in place.
type Unit struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
	Status      Status `json:"status"`
	Locked      bool   `json:"locked"`
	ErrorMsg    string `json:"error_msg,omitempty"`
}

// HasTranslation reports whether a translation has been recorded.
func (u Unit) HasTranslation() bool {
	return u.Translation != ""
}

// UnitID derives the positional identifier for text at index.
func UnitID(index int, text string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", index, text)))
	return fmt.Sprintf("%x", h[:8])
}

// Counts summarizes unit statuses.
type Counts struct {
	Total       int `json:"total"`
	Fresh       int `json:"fresh"`
	Stale       int `json:"stale"`
	Translating int `json:"translating"`
	Errors      int `json:"errors"`
	Locked      int `json:"locked"`
}

// CountUnits tallies statuses across units.
func CountUnits(units []Unit) Counts {
	c := Counts{Total: len(units)}
	for _, u := range units {
		switch u.Status {
		case StatusFresh:
			c.Fresh++
		case StatusStale:
			c.Stale++
		case StatusTranslating:
			c.Translating++
		case StatusError:
			c.Errors++
		}
		if u.Locked {
			c.Locked++
		}
	}
	return c
}

package pipeline

import "github.com/dgallion1/bilingual/internal/doctree"

// Reconcile merges a fresh segmentation into the previous unit list by position.
//
// A unit whose text is unchanged at the same index is kept as is. A changed
// position gets a new unit: locked units carry their lock, translation and
// status over (a translating status becomes stale, since the in-flight result
// belongs to the old id); unlocked ones become stale without a translation. Positions
// beyond the previous list start idle, and trailing previous units are dropped.
func Reconcile(prev []doctree.Unit, texts []string) []doctree.Unit {
	out := make([]doctree.Unit, len(texts))
	for i, text := range texts {
		if i >= len(prev) {
			out[i] = doctree.Unit{
				ID:     doctree.UnitID(i, text),
				Text:   text,
				Status: doctree.StatusIdle,
			}
			continue
		}

		old := prev[i]
		if old.Text == text {
			out[i] = old
			continue
		}

		u := doctree.Unit{
			ID:     doctree.UnitID(i, text),
			Text:   text,
			Status: doctree.StatusStale,
		}
		if old.Locked {
			u.Locked = true
			u.Translation = old.Translation
			switch old.Status {
			case doctree.StatusTranslating:
				// the completion for the old id will be dropped
			case doctree.StatusError:
				u.Status = old.Status
				u.ErrorMsg = old.ErrorMsg
			default:
				u.Status = old.Status
			}
		}
		out[i] = u
	}
	return out
}

package library

import (
	"log/slog"
	"slices"

	"audiomate/internal/clip"
	"audiomate/internal/collection"
	"audiomate/internal/host"
	"audiomate/internal/logging"
)

// Library holds one clip per available asset.
type Library struct {
	assets   host.AssetLookup
	category string
	reg      *collection.Registry
	clips    []*clip.Clip
	byID     map[string]*clip.Clip
	cursor   int
	logger   *slog.Logger
}

// New creates an empty library over assets. Call Refresh to index.
func New(assets host.AssetLookup, category string, reg *collection.Registry, logger *slog.Logger) *Library {
	return &Library{
		assets:   assets,
		category: category,
		reg:      reg,
		byID:     map[string]*clip.Clip{},
		cursor:   clip.NoIndex,
		logger:   logging.NewComponentLogger(logger, "library"),
	}
}

// Attach keeps clip flags in sync with the registry's active collection.
func (l *Library) Attach() {
	l.reg.OnActiveCollectionSelected(func(collection.ActiveCollectionSelected) { l.RefreshFlags() })
	l.reg.OnActiveCollectionUpdated(func(collection.ActiveCollectionUpdated) { l.RefreshFlags() })
}

// Refresh reconciles the library with the asset lookup. It reports false,
// changing nothing, while the lookup is not ready.
func (l *Library) Refresh() (added, removed int, ready bool) {
	available, ok := l.assets.EnumerateAvailable(l.category)
	if !ok {
		return 0, 0, false
	}
	present := make(map[string]struct{}, len(available))
	for _, asset := range available {
		present[asset.ID] = struct{}{}
		if existing, ok := l.byID[asset.ID]; ok {
			existing.Asset = asset
			continue
		}
		l.Intern(asset)
		added++
	}

	cursorClip := l.CursorClip()
	kept := l.clips[:0]
	for _, cl := range l.clips {
		if _, ok := present[cl.SourceID()]; ok {
			kept = append(kept, cl)
			continue
		}
		delete(l.byID, cl.SourceID())
		l.reg.RemoveSourceEverywhere(cl.SourceID())
		removed++
	}
	clear(l.clips[len(kept):])
	l.clips = kept

	l.cursor = clip.NoIndex
	if cursorClip != nil {
		l.cursor = slices.Index(l.clips, cursorClip)
	}
	if removed > 0 {
		l.reg.NotifyActiveUpdated()
	}
	l.RefreshFlags()
	l.logger.Info("library refreshed",
		logging.Int("added", added),
		logging.Int("removed", removed),
		logging.Int("clips", len(l.clips)),
	)
	return added, removed, true
}

// Intern returns the library clip for asset, creating it when missing.
func (l *Library) Intern(asset host.Asset) *clip.Clip {
	if existing, ok := l.byID[asset.ID]; ok {
		return existing
	}
	cl := clip.New(asset)
	l.clips = append(l.clips, cl)
	l.byID[asset.ID] = cl
	return cl
}

// Clips returns the library in index order.
func (l *Library) Clips() []*clip.Clip { return slices.Clone(l.clips) }

func (l *Library) Len() int { return len(l.clips) }

// Get returns the clip for a source id.
func (l *Library) Get(sourceID string) (*clip.Clip, bool) {
	cl, ok := l.byID[sourceID]
	return cl, ok
}

// Cursor returns the cursor index, or clip.NoIndex.
func (l *Library) Cursor() int { return l.cursor }

// CursorClip returns the clip under the cursor.
func (l *Library) CursorClip() *clip.Clip {
	if l.cursor < 0 || l.cursor >= len(l.clips) {
		return nil
	}
	return l.clips[l.cursor]
}

// SetCursor moves the cursor. Out of range indices are ignored.
func (l *Library) SetCursor(idx int) bool {
	if idx < 0 || idx >= len(l.clips) {
		return false
	}
	l.cursor = idx
	l.RefreshFlags()
	return true
}

// RefreshFlags recomputes each clip's in-collection and cursor flags.
func (l *Library) RefreshFlags() {
	active := l.reg.Active()
	for i, cl := range l.clips {
		cl.SetInActiveCollection(active != nil && active.Contains(cl))
		cl.SetCursor(i == l.cursor)
	}
}

// Toggle adds the clip to the active collection, or removes it when already
// a member. It moves the cursor to the clip and reports the new membership.
func (l *Library) Toggle(sourceID string) (member, ok bool) {
	cl, found := l.byID[sourceID]
	active := l.reg.Active()
	if !found || active == nil {
		return false, false
	}
	l.cursor = slices.Index(l.clips, cl)
	if active.Contains(cl) {
		l.reg.RemoveClipFromActive(cl)
	} else {
		l.reg.AddClipsToActive(cl)
	}
	l.RefreshFlags()
	return cl.InActiveCollection(), true
}

// AddRange adds the clips from the cursor through cursor+span inclusive to
// the active collection, leaving the cursor on the last clip added. Without
// a cursor the range starts at the first clip.
func (l *Library) AddRange(span int) int {
	if len(l.clips) == 0 || span < 0 {
		return 0
	}
	from := max(l.cursor, 0)
	to := min(from+span, len(l.clips)-1)
	added := l.reg.AddClipsToActive(l.clips[from : to+1]...)
	l.cursor = to
	l.RefreshFlags()
	return added
}

// AddAll adds every library clip to the active collection.
func (l *Library) AddAll() int {
	return l.reg.AddClipsToActive(l.clips...)
}

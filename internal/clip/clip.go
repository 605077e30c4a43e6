package clip

import (
	"audiomate/internal/host"
	"audiomate/internal/textutil"
)

// Clip references one catalog asset. The in-collection and cursor flags are
// presentation state and are never persisted.
type Clip struct {
	Asset host.Asset

	inActiveCollection bool
	hasCursor          bool
}

// New wraps an asset in a clip.
func New(asset host.Asset) *Clip {
	return &Clip{Asset: asset}
}

// SourceID returns the catalog identifier of the underlying asset.
func (c *Clip) SourceID() string {
	if c == nil {
		return ""
	}
	return c.Asset.ID
}

// DisplayName returns the asset name, derived from the id when unset.
func (c *Clip) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Asset.Name != "" {
		return c.Asset.Name
	}
	return textutil.DisplayName(c.Asset.ID)
}

func (c *Clip) InActiveCollection() bool { return c.inActiveCollection }

func (c *Clip) SetInActiveCollection(state bool) { c.inActiveCollection = state }

// ToggleInActiveCollection flips the in-collection flag and returns the new value.
func (c *Clip) ToggleInActiveCollection() bool {
	c.inActiveCollection = !c.inActiveCollection
	return c.inActiveCollection
}

func (c *Clip) HasCursor() bool { return c.hasCursor }

func (c *Clip) SetCursor(state bool) { c.hasCursor = state }

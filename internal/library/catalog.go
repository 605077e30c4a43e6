package library

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"audiomate/internal/fileutil"
	"audiomate/internal/host"
	"audiomate/internal/logging"
	"audiomate/internal/textutil"
)

// SupportedExtensions lists the audio formats the catalog indexes.
var SupportedExtensions = []string{".mp3", ".wav", ".ogg"}

// IsAudioFile reports whether path has a supported audio extension.
func IsAudioFile(path string) bool {
	return slices.Contains(SupportedExtensions, strings.ToLower(filepath.Ext(path)))
}

// Catalog is a directory-backed asset lookup.
type Catalog struct {
	root     string
	category string
	assets   []host.Asset
	byID     map[string]int
	scanned  bool
	logger   *slog.Logger
}

// NewCatalog creates a catalog for root. Assets are tagged with category.
// The catalog reports not ready until the first Scan.
func NewCatalog(root, category string, logger *slog.Logger) *Catalog {
	return &Catalog{
		root:     root,
		category: category,
		byID:     map[string]int{},
		logger:   logging.NewComponentLogger(logger, "catalog"),
	}
}

// Root returns the indexed directory.
func (c *Catalog) Root() string { return c.root }

// Scan re-reads the directory. A missing directory yields an empty catalog.
func (c *Catalog) Scan() error {
	var assets []host.Asset
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == c.root && errors.Is(walkErr, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return walkErr
		}
		if d.IsDir() {
			if path != c.root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !IsAudioFile(path) {
			return nil
		}
		asset, ok := c.assetFor(path)
		if ok {
			assets = append(assets, asset)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", c.root, err)
	}
	slices.SortFunc(assets, func(a, b host.Asset) int { return strings.Compare(a.ID, b.ID) })

	c.assets = assets
	c.byID = make(map[string]int, len(assets))
	for i, a := range assets {
		c.byID[a.ID] = i
	}
	c.scanned = true
	c.logger.Debug("catalog scanned", logging.Int("assets", len(assets)))
	return nil
}

func (c *Catalog) assetFor(path string) (host.Asset, bool) {
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return host.Asset{}, false
	}
	id := NormalizeID(rel)
	return host.Asset{
		ID:       id,
		Name:     textutil.DisplayName(id),
		Path:     path,
		Category: c.category,
	}, true
}

// NormalizeID converts a relative path into an asset id.
func NormalizeID(rel string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(rel)), "./")
}

// Resolve implements host.AssetLookup.
func (c *Catalog) Resolve(id string) (host.Asset, bool) {
	idx, ok := c.byID[NormalizeID(id)]
	if !ok {
		return host.Asset{}, false
	}
	return c.assets[idx], true
}

// EnumerateAvailable implements host.AssetLookup. It reports false until the
// catalog has been scanned.
func (c *Catalog) EnumerateAvailable(category string) ([]host.Asset, bool) {
	if !c.scanned {
		return nil, false
	}
	if category != "" && category != c.category {
		return nil, true
	}
	return slices.Clone(c.assets), true
}

// Import copies an audio file, or every audio file below a folder, into the
// catalog directory and rescans. Files already inside the directory are
// indexed in place. Sidecar .json files and other formats are skipped.
func (c *Catalog) Import(source string) ([]host.Asset, error) {
	source = filepath.Clean(source)
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", source, err)
	}
	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return nil, fmt.Errorf("create sounds dir: %w", err)
	}

	var targets []string
	if info.IsDir() {
		base := filepath.Base(source)
		err = filepath.WalkDir(source, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !IsAudioFile(path) {
				return nil
			}
			rel, err := filepath.Rel(source, path)
			if err != nil {
				return err
			}
			dst, err := c.place(path, filepath.Join(base, rel))
			if err != nil {
				return err
			}
			targets = append(targets, dst)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", source, err)
		}
	} else {
		if !IsAudioFile(source) {
			return nil, fmt.Errorf("import %s: unsupported format (want %s)", source, strings.Join(SupportedExtensions, ", "))
		}
		dst, err := c.place(source, filepath.Base(source))
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", source, err)
		}
		targets = append(targets, dst)
	}

	if err := c.Scan(); err != nil {
		return nil, err
	}
	imported := make([]host.Asset, 0, len(targets))
	for _, path := range targets {
		if asset, ok := c.assetFor(path); ok {
			if resolved, ok := c.Resolve(asset.ID); ok {
				imported = append(imported, resolved)
			}
		}
	}
	c.logger.Info("assets imported",
		logging.String("source", source),
		logging.Int("count", len(imported)),
	)
	return imported, nil
}

func (c *Catalog) place(src, rel string) (string, error) {
	if fileutil.Within(c.root, src) {
		return src, nil
	}
	dst := fileutil.UniquePath(filepath.Join(c.root, rel))
	if err := fileutil.CopyVerified(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

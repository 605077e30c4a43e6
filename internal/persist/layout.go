package persist

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"audiomate/internal/collection"
	"audiomate/internal/logging"
)

// Layout complements the plugin document, which leaves out empty
// collections: it records every collection name in order plus the settings
// of the empty ones.
type Layout struct {
	Order []string `json:"order"`
	Empty Tree     `json:"empty"`
}

// EncodeLayout captures the registry order and its empty collections.
func EncodeLayout(reg *collection.Registry) Layout {
	layout := Layout{Order: reg.Names()}
	for _, c := range reg.Collections() {
		if c.Len() == 0 {
			layout.Empty.Entries = append(layout.Empty.Entries, Entry{Key: c.Name(), Record: recordOf(c)})
		}
	}
	return layout
}

// SnapshotLayout encodes the layout of reg.
func SnapshotLayout(reg *collection.Registry) ([]byte, error) {
	return json.Marshal(EncodeLayout(reg))
}

// RestoreLayout runs after Restore. It re-creates the stored empty
// collections that are missing, drops empty collections the layout does not
// list (such as the default created before restoring), and puts the
// collections back in stored order. It returns how many collections it
// re-created. An empty or unreadable layout changes nothing.
func RestoreLayout(data []byte, reg *collection.Registry, deps Deps) int {
	logger := logging.NewComponentLogger(deps.Logger, "persist")
	if len(bytes.TrimSpace(data)) == 0 {
		return 0
	}
	var layout Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		logging.WarnWithContext(logger, "invalid collection layout", "persist_malformed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect the stored scene layout"),
			logging.String(logging.FieldImpact, "empty collections are not restored"),
		)
		return 0
	}

	added := 0
	for _, entry := range layout.Empty.Entries {
		name := strings.TrimSpace(string(entry.Record.Name))
		if name == "" {
			name = strings.TrimSpace(entry.Key)
		}
		if name == "" || reg.Collides(name, nil) {
			continue
		}
		reg.Adopt(decodeCollection(entry, reg, deps, logger))
		added++
	}

	if len(layout.Order) > 0 {
		for _, c := range reg.Collections() {
			if c.Len() == 0 && !slices.Contains(layout.Order, c.Name()) && reg.Len() > 1 {
				reg.Remove(c.Name())
			}
		}
		reg.Arrange(layout.Order)
	}
	if added > 0 {
		logger.Info("empty collections restored", logging.Int("count", added))
	}
	return added
}

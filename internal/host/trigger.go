package host

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Phase selects the start or end action list of a trigger source.
type Phase string

const (
	PhaseStart Phase = "start"
	PhaseEnd   Phase = "end"
)

// ParsePhase converts user input into a Phase.
func ParsePhase(value string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "start", "":
		return PhaseStart, nil
	case "end":
		return PhaseEnd, nil
	default:
		return "", fmt.Errorf("unknown trigger phase %q (want start or end)", value)
	}
}

// TriggerEntry is a discrete action attached to a trigger source.
type TriggerEntry struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ReceiverStoreID    string `json:"receiver"`
	ReceiverTargetName string `json:"receiverTargetName"`
}

// TriggerSource is a named collider whose start and end phases carry
// discrete action entries.
type TriggerSource struct {
	ID      string          `json:"id"`
	Enabled bool            `json:"enabled"`
	Start   []*TriggerEntry `json:"startActions"`
	End     []*TriggerEntry `json:"endActions"`
}

// Entries returns the entries of one phase.
func (s *TriggerSource) Entries(phase Phase) []*TriggerEntry {
	if s == nil {
		return nil
	}
	if phase == PhaseEnd {
		return s.End
	}
	return s.Start
}

// HasBoundEntry reports whether an entry with the given name and a receiver
// already exists under phase.
func (s *TriggerSource) HasBoundEntry(phase Phase, name string) bool {
	for _, entry := range s.Entries(phase) {
		if entry != nil && entry.Name == name && entry.ReceiverStoreID != "" {
			return true
		}
	}
	return false
}

// CreateEntry appends a new empty entry to the phase and returns it.
func (s *TriggerSource) CreateEntry(phase Phase) *TriggerEntry {
	entry := &TriggerEntry{ID: uuid.NewString()}
	if phase == PhaseEnd {
		s.End = append(s.End, entry)
	} else {
		s.Start = append(s.Start, entry)
	}
	return entry
}

// RemoveEntry deletes the entry with the given id from phase.
func (s *TriggerSource) RemoveEntry(phase Phase, entryID string) bool {
	list := s.Entries(phase)
	for i, entry := range list {
		if entry == nil || entry.ID != entryID {
			continue
		}
		list = append(list[:i], list[i+1:]...)
		if phase == PhaseEnd {
			s.End = list
		} else {
			s.Start = list
		}
		return true
	}
	return false
}

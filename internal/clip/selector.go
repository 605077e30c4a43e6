package clip

import (
	"math"
	"slices"
)

const (
	// MaxRedrawAttempts bounds the redraw loop that suppresses an immediate
	// repeat across a shuffle pass boundary.
	MaxRedrawAttempts = 100

	// NoIndex marks an unset last played index.
	NoIndex = -1
)

// Selector owns a collection's members and shuffle pool.
type Selector struct {
	rnd        Rand
	members    []*Clip
	pool       []int
	shuffle    bool
	playChance float64
	lastPlayed int
}

// NewSelector creates an empty selector in shuffle mode with a play chance of 1.
func NewSelector(rnd Rand) *Selector {
	if rnd == nil {
		rnd = DefaultRand()
	}
	return &Selector{
		rnd:        rnd,
		shuffle:    true,
		playChance: 1,
		lastPlayed: NoIndex,
	}
}

// Draw returns a clip to play, or false when nothing was selected. Unless
// skipGate is set, the play-chance gate may reject the draw without side
// effects. In shuffle mode a draw that keeps landing on the previous clip
// is abandoned after MaxRedrawAttempts redraws.
func (s *Selector) Draw(skipGate bool) (*Clip, bool) {
	if len(s.members) == 0 {
		return nil, false
	}
	if !skipGate && s.rnd.Float64() >= s.playChance {
		return nil, false
	}

	if !s.shuffle {
		idx := s.rnd.IntN(len(s.members))
		s.lastPlayed = idx
		return s.members[idx], true
	}

	if len(s.pool) == 1 {
		idx := s.pool[0]
		s.lastPlayed = idx
		s.resetPool()
		return s.members[idx], true
	}
	if len(s.pool) == 0 {
		s.resetPool()
	}

	pos := s.rnd.IntN(len(s.pool))
	if len(s.members) > 1 {
		for attempt := 1; s.pool[pos] == s.lastPlayed; attempt++ {
			if attempt > MaxRedrawAttempts {
				return nil, false
			}
			pos = s.rnd.IntN(len(s.pool))
		}
	}

	idx := s.pool[pos]
	s.pool = slices.Delete(s.pool, pos, pos+1)
	s.lastPlayed = idx
	return s.members[idx], true
}

// Add appends a clip unless it is already a member.
func (s *Selector) Add(c *Clip) bool {
	if c == nil || s.Contains(c) {
		return false
	}
	s.members = append(s.members, c)
	s.resetPool()
	return true
}

// Remove drops a member clip and reports whether it was present.
func (s *Selector) Remove(c *Clip) bool {
	idx := slices.Index(s.members, c)
	if c == nil || idx < 0 {
		return false
	}
	s.removeAt(idx)
	return true
}

// RemoveSource drops the member referencing the given asset id.
func (s *Selector) RemoveSource(sourceID string) bool {
	idx := slices.IndexFunc(s.members, func(c *Clip) bool { return c.SourceID() == sourceID })
	if idx < 0 {
		return false
	}
	s.removeAt(idx)
	return true
}

// Clear removes every member.
func (s *Selector) Clear() {
	s.members = nil
	s.resetPool()
}

func (s *Selector) removeAt(idx int) {
	s.members = slices.Delete(s.members, idx, idx+1)
	s.resetPool()
}

// Contains reports whether c is a member.
func (s *Selector) Contains(c *Clip) bool {
	return c != nil && slices.Contains(s.members, c)
}

// Find returns the member referencing sourceID.
func (s *Selector) Find(sourceID string) (*Clip, bool) {
	idx := slices.IndexFunc(s.members, func(c *Clip) bool { return c.SourceID() == sourceID })
	if idx < 0 {
		return nil, false
	}
	return s.members[idx], true
}

// Members returns the member list in insertion order.
func (s *Selector) Members() []*Clip { return slices.Clone(s.members) }

// Len returns the member count.
func (s *Selector) Len() int { return len(s.members) }

// Pool returns the member indices not yet played in the current pass.
func (s *Selector) Pool() []int { return slices.Clone(s.pool) }

func (s *Selector) Shuffle() bool { return s.shuffle }

func (s *Selector) SetShuffle(on bool) { s.shuffle = on }

func (s *Selector) PlayChance() float64 { return s.playChance }

// SetPlayChance stores chance clamped to [0, 1].
func (s *Selector) SetPlayChance(chance float64) {
	switch {
	case math.IsNaN(chance), chance < 0:
		s.playChance = 0
	case chance > 1:
		s.playChance = 1
	default:
		s.playChance = chance
	}
}

// LastPlayedIndex returns the absolute member index of the previous draw, or NoIndex.
func (s *Selector) LastPlayedIndex() int { return s.lastPlayed }

// SetLastPlayedIndex restores the previous draw position. Negative values reset it.
func (s *Selector) SetLastPlayedIndex(idx int) {
	if idx < 0 {
		idx = NoIndex
	}
	s.lastPlayed = idx
}

func (s *Selector) resetPool() {
	s.pool = s.pool[:0]
	for i := range s.members {
		s.pool = append(s.pool, i)
	}
}

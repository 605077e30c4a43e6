// Package clip holds the clip value type and the per-collection selection
// engine.
//
// A Selector owns the ordered member list of one collection and the shuffle
// pool of member indices not yet played in the current pass. Draw applies the
// play-chance gate and then either consumes one pool entry (shuffle mode) or
// picks any member uniformly (standard mode). Every structural mutation of the
// member list rebuilds the pool, so pool entries are always valid member
// indices.
//
// Randomness is injected through Rand so tests can script draws.
package clip

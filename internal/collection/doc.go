// Package collection implements named clip collections and the registry that
// owns them.
//
// A Collection wraps a clip.Selector with playback configuration and
// dispatches drawn clips to its receiver. The Registry keeps collections in
// creation order, guarantees unique non-empty names, and tracks exactly one
// active collection by stable id once initialized. Removing the last
// collection synchronously creates a fresh default one.
//
// Registry changes are announced through per-event observer lists. Observers
// run synchronously, in subscription order, before the mutating call
// returns. The action registry and trigger binder subscribe here to stay in
// lock-step with collection names.
package collection

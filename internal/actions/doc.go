// Package actions keeps the host's named action table in lock-step with the
// collection registry.
//
// Every collection owns a play action and a queue action named
// PlayRandomClipFrom<Name> and QueueRandomClipFrom<Name>, with all whitespace
// stripped from the name. Bindings are created when a collection is added,
// destroyed when it is removed, and destroyed then recreated when the active
// collection is renamed; hosts must re-resolve actions by their new names.
// Two global actions target whichever collection is active.
package actions

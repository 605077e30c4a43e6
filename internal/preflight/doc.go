// Package preflight provides readiness checks for the filesystem paths,
// scene store, sound catalog, and scene layout AudioMate depends on.
//
// The CLI "audiomate preflight" command runs RunAll and prints one line per
// check; "audiomate run" runs it before opening the audio device and refuses
// to start when a required check fails.
package preflight

// Package config loads, normalizes, and validates AudioMate configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours AUDIOMATE_* environment
// overrides. The Config type centralizes every knob the engine, the scene
// store and the CLI need, so sound, state and log directories, the declared
// host atoms and the trigger colliders are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

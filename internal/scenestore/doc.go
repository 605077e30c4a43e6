// Package scenestore persists scene state in SQLite.
//
// Each scene row carries the plugin document produced by the persist package
// and the trigger sources of the scene. The engine saves a row whenever the
// host would save its scene and reloads it on the next run, which stands in
// for the host's own scene file.
//
// The schema is versioned. A database created by a different version is
// rejected with ErrSchemaMismatch; delete the file to start over.
package scenestore

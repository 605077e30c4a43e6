// Package persist encodes the collection registry to the JSON tree stored
// with a scene and restores it.
//
// The tree lives under the top-level "Collections" key of the plugin
// document. Each non-empty collection becomes one child keyed by its name;
// child order follows registry order and is preserved on decode so the first
// stored collection becomes active after a restore.
//
// Decoding is lenient: absent fields take typed defaults, legacy documents
// that stored booleans and numbers as strings still load, and clip ids that
// no longer resolve are dropped. An empty or malformed tree is reported as
// "nothing to restore" and leaves the registry untouched.
package persist

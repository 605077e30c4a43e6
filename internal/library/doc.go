// Package library indexes the sound assets available to collections.
//
// Catalog implements host.AssetLookup over the configured sounds directory:
// every .mp3, .wav, and .ogg file below it is an asset whose id is the
// slash-separated path relative to the directory. Import copies files or
// whole folders into the directory and rescans.
//
// Library holds the Clip wrapper for each catalog asset. Refresh reconciles
// it with the catalog, creating clips for new assets and purging clips whose
// asset disappeared from the library and from every collection. The library
// also keeps a cursor and the presentation flags of each clip in sync with
// the active collection.
package library

// Command audiomate manages sound collections for a scene and plays them
// through the local audio device.
//
// One-shot commands (collections, clips, triggers, play, ...) open the stored
// scene under a file lock, apply a change through the engine, and save it
// back. The run command keeps the engine ticking, streams clips to the
// speaker, and accepts action and trigger commands on stdin.
package main

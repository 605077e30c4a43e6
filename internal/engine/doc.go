// Package engine wires the collection registry, action registry, trigger
// binder, clip library, and persistence codec behind one lifecycle.
//
// Controller implements Lifecycle. The host calls Init once, LateInit after
// its own setup, OnEnable and OnDisable as the plugin is toggled, OnTick on
// every frame, and OnTeardown when the plugin is removed. Every multi-tick
// wait is a Readiness value advanced by OnTick: the controller waits for the
// host to finish loading and for the asset catalog before it initializes the
// registry, and parks a restore request that arrives earlier.
//
// Session assembles a Controller from configuration for the command line
// host: the in-memory scene, the sound catalog, the beep output, and the
// scene store.
package engine

// Package host defines the collaborator surfaces the collection engine
// consumes from its hosting runtime and ships an in-memory Scene that
// implements all of them.
//
// The engine never reaches for global services: asset lookup, atom and
// receiver lookup, the action table, and trigger sources are all injected
// through the interfaces declared here. Scene is the implementation used by
// the command line host and by tests. It is not safe for concurrent use; the
// tick loop that owns the engine is expected to own the scene as well.
package host

// Package logging assembles the structured slog loggers used by the
// collection engine and the command line host.
//
// It owns the console and JSON handlers, a tee handler that mirrors records
// into the host log file, and a session handler that tags every
// record of a `run` invocation with a stable session id. Field name constants
// keep component, collection, clip and receiver attributes consistent so log
// lines can be filtered by the same keys everywhere.
//
// Tests and wiring code that cannot fail should use NewNop.
package logging

// Package receiver plays collection clips through beep.
//
// A Player is one audio node: it implements host.Receiver on top of a
// queue streamer, decoding each asset lazily when it reaches the head of the
// queue. Output owns the beep mixer that every Player streams into and
// either drives the system speaker or, when muted, lets the caller pull
// samples with Advance so tests and headless runs make progress.
package receiver

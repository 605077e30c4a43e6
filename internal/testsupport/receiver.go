package testsupport

import "audiomate/internal/host"

// ReceiverCall records one playback request.
type ReceiverCall struct {
	Method  string
	AssetID string
}

// RecordingReceiver is a host.Receiver that records every request.
type RecordingReceiver struct {
	Calls []ReceiverCall
}

func (r *RecordingReceiver) record(method string, a host.Asset) {
	r.Calls = append(r.Calls, ReceiverCall{Method: method, AssetID: a.ID})
}

func (r *RecordingReceiver) PlayNow(a host.Asset)           { r.record("PlayNow", a) }
func (r *RecordingReceiver) PlayNowClearQueue(a host.Asset) { r.record("PlayNowClearQueue", a) }
func (r *RecordingReceiver) PlayIfClear(a host.Asset)       { r.record("PlayIfClear", a) }
func (r *RecordingReceiver) Enqueue(a host.Asset)           { r.record("Enqueue", a) }

// Methods returns the recorded method names in order.
func (r *RecordingReceiver) Methods() []string {
	out := make([]string, 0, len(r.Calls))
	for _, call := range r.Calls {
		out = append(out, call.Method)
	}
	return out
}

// Reset forgets recorded calls.
func (r *RecordingReceiver) Reset() { r.Calls = nil }

// StaticAssets is a host.AssetLookup over a fixed asset list.
type StaticAssets struct {
	Assets   []host.Asset
	NotReady bool
}

// NewStaticAssets builds a lookup with one asset per id.
func NewStaticAssets(ids ...string) *StaticAssets {
	lookup := &StaticAssets{}
	for _, id := range ids {
		lookup.Assets = append(lookup.Assets, host.Asset{ID: id, Name: id, Category: "web"})
	}
	return lookup
}

// Resolve implements host.AssetLookup.
func (s *StaticAssets) Resolve(id string) (host.Asset, bool) {
	for _, a := range s.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return host.Asset{}, false
}

// EnumerateAvailable implements host.AssetLookup.
func (s *StaticAssets) EnumerateAvailable(category string) ([]host.Asset, bool) {
	if s.NotReady {
		return nil, false
	}
	out := make([]host.Asset, 0, len(s.Assets))
	for _, a := range s.Assets {
		if category == "" || a.Category == category {
			out = append(out, a)
		}
	}
	return out, true
}

// Drop removes an asset so later lookups miss it.
func (s *StaticAssets) Drop(id string) {
	kept := s.Assets[:0]
	for _, a := range s.Assets {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.Assets = kept
}

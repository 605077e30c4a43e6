package receiver

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/gopxl/beep"

	"audiomate/internal/host"
	"audiomate/internal/logging"
)

// Player is a queueing audio node. It is safe for concurrent use: the
// engine issues requests while the speaker goroutine pulls samples.
type Player struct {
	mu      sync.Mutex
	name    string
	rate    beep.SampleRate
	decode  Decoder
	logger  *slog.Logger
	current *track
	queue   []host.Asset
	played  int
}

type track struct {
	asset  host.Asset
	stream beep.Streamer
	close  func() error
}

// NewPlayer creates an idle player. A nil decode uses DecodeFile.
func NewPlayer(name string, rate beep.SampleRate, decode Decoder, logger *slog.Logger) *Player {
	if decode == nil {
		decode = DecodeFile
	}
	return &Player{
		name:   name,
		rate:   rate,
		decode: decode,
		logger: logging.NewComponentLogger(logger, "receiver").With(logging.String(logging.FieldNode, name)),
	}
}

// Name returns the node label the player was created with.
func (p *Player) Name() string { return p.name }

// PlayNow interrupts the current clip and keeps the queue.
func (p *Player) PlayNow(asset host.Asset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startLocked(asset)
}

// PlayNowClearQueue drops queued clips, then plays asset immediately.
func (p *Player) PlayNowClearQueue(asset host.Asset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = nil
	p.startLocked(asset)
}

// PlayIfClear plays asset only when nothing is playing or queued.
func (p *Player) PlayIfClear(asset host.Asset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.idleLocked() {
		p.logger.Debug("busy, clip skipped", logging.String(logging.FieldClip, asset.ID))
		return
	}
	p.startLocked(asset)
}

// Enqueue appends asset, starting it at once when the player is idle.
func (p *Player) Enqueue(asset host.Asset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.idleLocked() {
		p.startLocked(asset)
		return
	}
	p.queue = append(p.queue, asset)
}

// Idle reports whether nothing is playing or queued.
func (p *Player) Idle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idleLocked()
}

// Len returns the number of queued clips, excluding the current one.
func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// NowPlaying returns the id of the current clip.
func (p *Player) NowPlaying() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", false
	}
	return p.current.asset.ID, true
}

// Queued returns the ids waiting behind the current clip.
func (p *Player) Queued() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.queue))
	for _, a := range p.queue {
		ids = append(ids, a.ID)
	}
	return ids
}

// Played returns how many clips started since the player was created.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// Stop drops the current clip and the queue.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = nil
	p.closeCurrentLocked()
}

// Stream implements beep.Streamer. An idle player streams silence so it can
// stay in the mixer.
func (p *Player) Stream(samples [][2]float64) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	filled := 0
	for filled < len(samples) {
		if p.current == nil && !p.advanceLocked() {
			break
		}
		n, ok := p.current.stream.Stream(samples[filled:])
		filled += n
		if !ok || n == 0 {
			p.closeCurrentLocked()
		}
	}
	clear(samples[filled:])
	return len(samples), true
}

// Err implements beep.Streamer.
func (p *Player) Err() error { return nil }

func (p *Player) idleLocked() bool {
	return p.current == nil && len(p.queue) == 0
}

func (p *Player) startLocked(asset host.Asset) {
	p.closeCurrentLocked()
	stream, closer, err := p.decode(asset, p.rate)
	if err != nil {
		logging.WarnWithContext(p.logger, "clip decode failed", "decode_failed",
			logging.String(logging.FieldClip, asset.ID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the file exists and is a valid wav, mp3, or ogg file"),
			logging.String(logging.FieldImpact, "clip skipped"),
		)
		return
	}
	p.current = &track{asset: asset, stream: stream, close: closer}
	p.played++
	p.logger.Debug("clip started", logging.String(logging.FieldClip, asset.ID))
}

// advanceLocked starts the next decodable queued clip.
func (p *Player) advanceLocked() bool {
	for len(p.queue) > 0 && p.current == nil {
		next := p.queue[0]
		p.queue = slices.Delete(p.queue, 0, 1)
		p.startLocked(next)
	}
	return p.current != nil
}

func (p *Player) closeCurrentLocked() {
	if p.current == nil {
		return
	}
	if p.current.close != nil {
		_ = p.current.close()
	}
	p.current = nil
}

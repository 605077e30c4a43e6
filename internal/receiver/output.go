package receiver

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"audiomate/internal/config"
	"audiomate/internal/logging"
)

// Output mixes every player into one stream.
type Output struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	buffer  time.Duration
	muted   bool
	started bool
	mixer   *beep.Mixer
	players map[string]*Player
	decode  Decoder
	logger  *slog.Logger
	scratch [][2]float64
}

// NewOutput creates an output from audio settings. A nil decode uses
// DecodeFile.
func NewOutput(cfg config.Audio, decode Decoder, logger *slog.Logger) *Output {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 48000
	}
	buffer := time.Duration(cfg.BufferMS) * time.Millisecond
	if buffer <= 0 {
		buffer = 100 * time.Millisecond
	}
	return &Output{
		rate:    beep.SampleRate(rate),
		buffer:  buffer,
		muted:   cfg.Muted,
		mixer:   &beep.Mixer{},
		players: map[string]*Player{},
		decode:  decode,
		logger:  logging.NewComponentLogger(logger, "output"),
	}
}

// Muted reports whether the output runs without a speaker.
func (o *Output) Muted() bool { return o.muted }

// SampleRate returns the mix rate.
func (o *Output) SampleRate() beep.SampleRate { return o.rate }

// Start opens the speaker and begins streaming the mixer. Muted outputs
// start without touching the audio device.
func (o *Output) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return nil
	}
	if !o.muted {
		if err := speaker.Init(o.rate, o.rate.N(o.buffer)); err != nil {
			return fmt.Errorf("init speaker: %w", err)
		}
		speaker.Play(o.mixer)
	}
	o.started = true
	o.logger.Info("audio output started",
		logging.Int("sample_rate", int(o.rate)),
		logging.Bool("muted", o.muted),
	)
	return nil
}

// Player returns the player for an atom node, creating it on first use.
func (o *Output) Player(atomID, nodeID string) *Player {
	key := atomID + "/" + nodeID
	o.mu.Lock()
	defer o.mu.Unlock()
	if p, ok := o.players[key]; ok {
		return p
	}
	p := NewPlayer(key, o.rate, o.decode, o.logger)
	o.players[key] = p
	o.withSpeakerLocked(func() { o.mixer.Add(p) })
	return p
}

// Players returns the number of nodes attached to the mixer.
func (o *Output) Players() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.players)
}

// Idle reports whether every player has finished its clip and queue.
func (o *Output) Idle() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, p := range o.players {
		if !p.Idle() {
			return false
		}
	}
	return true
}

// Advance pulls d worth of samples through the mixer and discards them. It
// only has an effect on muted outputs, where nothing else drains the players.
func (o *Output) Advance(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.muted || d <= 0 {
		return
	}
	n := o.rate.N(d)
	if cap(o.scratch) < n {
		o.scratch = make([][2]float64, n)
	}
	o.mixer.Stream(o.scratch[:n])
}

// Close stops every player and the speaker.
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, p := range o.players {
		p.Stop()
	}
	o.withSpeakerLocked(func() { o.mixer.Clear() })
	if o.started && !o.muted {
		speaker.Close()
	}
	o.started = false
}

func (o *Output) withSpeakerLocked(fn func()) {
	if o.started && !o.muted {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

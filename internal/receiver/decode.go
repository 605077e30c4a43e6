package receiver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"audiomate/internal/host"
)

// resampleQuality is passed to beep.Resample.
const resampleQuality = 4

// Decoder opens an asset as a streamer at the requested sample rate. The
// returned closer releases the underlying file.
type Decoder func(asset host.Asset, rate beep.SampleRate) (beep.Streamer, func() error, error)

// DecodeFile decodes wav, mp3, and ogg vorbis files, resampling them to rate.
func DecodeFile(asset host.Asset, rate beep.SampleRate) (beep.Streamer, func() error, error) {
	path := strings.TrimSpace(asset.Path)
	if path == "" {
		return nil, nil, fmt.Errorf("asset %q has no file path", asset.ID)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	default:
		err = fmt.Errorf("unsupported format %q", ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}

	closer := func() error {
		err := stream.Close()
		_ = f.Close()
		return err
	}
	if format.SampleRate == rate {
		return stream, closer, nil
	}
	return beep.Resample(resampleQuality, format.SampleRate, rate, stream), closer, nil
}

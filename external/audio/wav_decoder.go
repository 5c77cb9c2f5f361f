package audio

import (
	"fmt"
	"os"

	"github.com/foxseedlab/leopard/internal/audio"
	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/foxseedlab/leopard/internal/leopard"
	"github.com/go-audio/wav"
)

const wavBitDepth = 16

func decodeWAV(path string) (audio.PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.PCM{}, leopard.NewError(engine.StatusIOError, fmt.Sprintf("Couldn't open audio file at '%s'", path))
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return audio.PCM{}, leopard.NewError(engine.StatusInvalidArgument, fmt.Sprintf("'%s' is not a valid WAV file", path))
	}
	if d.BitDepth != wavBitDepth {
		return audio.PCM{}, leopard.NewError(engine.StatusInvalidArgument,
			fmt.Sprintf("WAV file must be %d-bit, got %d-bit", wavBitDepth, d.BitDepth))
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return audio.PCM{}, leopard.NewError(engine.StatusIOError, fmt.Sprintf("failed to read WAV data: %v", err))
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}
	return audio.PCM{
		Samples:    samples,
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
	}, nil
}

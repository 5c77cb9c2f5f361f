//go:build opus

package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/foxseedlab/leopard/internal/audio"
	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/foxseedlab/leopard/internal/leopard"
	"github.com/hraban/opus"
)

const (
	opusSampleRate = 48000
	// 120 ms, the longest Opus frame.
	opusMaxFrameSamples = opusSampleRate * 120 / 1000
)

func decodeOpus(path string) (audio.PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return audio.PCM{}, leopard.NewError(engine.StatusIOError, fmt.Sprintf("Couldn't open audio file at '%s'", path))
	}
	defer f.Close()

	channels, err := opusChannels(f)
	if err != nil {
		return audio.PCM{}, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return audio.PCM{}, leopard.NewError(engine.StatusIOError, err.Error())
	}

	stream, err := opus.NewStream(f)
	if err != nil {
		return audio.PCM{}, leopard.NewError(engine.StatusInvalidArgument, fmt.Sprintf("'%s' is not an Ogg Opus file: %v", path, err))
	}
	defer stream.Close()

	var samples []int16
	pcm := make([]int16, opusMaxFrameSamples*channels)
	for {
		n, err := stream.Read(pcm)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return audio.PCM{}, leopard.NewError(engine.StatusInvalidArgument, fmt.Sprintf("failed to decode Opus data: %v", err))
		}
		samples = append(samples, pcm[:n*channels]...)
	}

	return audio.PCM{Samples: samples, SampleRate: opusSampleRate, Channels: channels}, nil
}

// opusChannels reads the channel count from the OpusHead identification
// header on the first Ogg page.
func opusChannels(r io.Reader) (int, error) {
	head := make([]byte, 512)
	n, _ := io.ReadFull(r, head)
	head = head[:n]

	magic := []byte("OpusHead")
	i := bytes.Index(head, magic)
	if i < 0 || i+len(magic)+2 > len(head) {
		return 0, leopard.NewError(engine.StatusInvalidArgument, "missing OpusHead header")
	}
	channels := int(head[i+len(magic)+1])
	if channels != 1 && channels != 2 {
		return 0, leopard.NewError(engine.StatusInvalidArgument, fmt.Sprintf("unsupported Opus channel count %d", channels))
	}
	return channels, nil
}

package audio

import (
	"errors"
	"fmt"
)

var ErrUnsupportedRate = errors.New("unsupported sample rate conversion")

// PCM is interleaved signed 16-bit audio.
type PCM struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

func (p PCM) Frames() int {
	if p.Channels <= 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// Downmix averages interleaved channels into a single channel.
func Downmix(p PCM) (PCM, error) {
	if p.Channels <= 0 {
		return PCM{}, fmt.Errorf("invalid channel count %d", p.Channels)
	}
	if p.Channels == 1 {
		return p, nil
	}
	if len(p.Samples)%p.Channels != 0 {
		return PCM{}, fmt.Errorf("%d samples do not divide into %d channels", len(p.Samples), p.Channels)
	}

	out := make([]int16, p.Frames())
	for i := range out {
		var sum int
		for c := 0; c < p.Channels; c++ {
			sum += int(p.Samples[i*p.Channels+c])
		}
		out[i] = int16(sum / p.Channels)
	}
	return PCM{Samples: out, SampleRate: p.SampleRate, Channels: 1}, nil
}

// Resample converts mono audio to rate by averaging blocks of samples. Only
// integer down-sampling ratios are supported.
func Resample(p PCM, rate int) (PCM, error) {
	if p.Channels != 1 {
		return PCM{}, fmt.Errorf("resample needs mono audio, got %d channels", p.Channels)
	}
	if rate <= 0 || p.SampleRate <= 0 {
		return PCM{}, fmt.Errorf("%w: %d Hz to %d Hz", ErrUnsupportedRate, p.SampleRate, rate)
	}
	if p.SampleRate == rate {
		return p, nil
	}
	if p.SampleRate < rate || p.SampleRate%rate != 0 {
		return PCM{}, fmt.Errorf("%w: %d Hz to %d Hz", ErrUnsupportedRate, p.SampleRate, rate)
	}

	ratio := p.SampleRate / rate
	out := make([]int16, len(p.Samples)/ratio)
	for i := range out {
		var sum int
		for _, s := range p.Samples[i*ratio : (i+1)*ratio] {
			sum += int(s)
		}
		out[i] = int16(sum / ratio)
	}
	return PCM{Samples: out, SampleRate: rate, Channels: 1}, nil
}

// ToMono downmixes and resamples p to rate.
func ToMono(p PCM, rate int) (PCM, error) {
	mono, err := Downmix(p)
	if err != nil {
		return PCM{}, err
	}
	return Resample(mono, rate)
}

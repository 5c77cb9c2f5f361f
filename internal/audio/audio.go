package audio

import "context"

// Decoder reads an audio file into PCM at its native rate and layout.
type Decoder interface {
	DecodeFile(path string) (PCM, error)
}

type Device struct {
	Index int
	Name  string
}

// Recorder captures mono 16-bit audio from an input device.
type Recorder interface {
	Devices() ([]Device, error)
	Start(ctx context.Context, deviceIndex int) error
	// Stop ends the capture and returns everything recorded since Start.
	Stop() ([]int16, error)
	SampleRate() int
	Close() error
}

//go:build portaudio

package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/foxseedlab/leopard/internal/audio"
	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 512

type PortAudioRecorder struct {
	sampleRate int

	mu      sync.Mutex
	stream  *portaudio.Stream
	buffer  []int16
	samples []int16
	running bool
	done    chan struct{}
	readErr error
}

var _ audio.Recorder = (*PortAudioRecorder)(nil)

func NewRecorder(sampleRate int) (audio.Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	return &PortAudioRecorder{
		sampleRate: sampleRate,
		buffer:     make([]int16, framesPerBuffer),
	}, nil
}

func (r *PortAudioRecorder) Devices() ([]audio.Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	devices := make([]audio.Device, 0, len(infos))
	for i, info := range infos {
		if info.MaxInputChannels < 1 {
			continue
		}
		devices = append(devices, audio.Device{Index: i, Name: info.Name})
	}
	return devices, nil
}

// Start opens the device at deviceIndex, or the default input when it is
// negative.
func (r *PortAudioRecorder) Start(ctx context.Context, deviceIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil
	}

	stream, err := r.open(deviceIndex)
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}

	r.stream = stream
	r.samples = make([]int16, 0, r.sampleRate*30)
	r.running = true
	r.readErr = nil
	r.done = make(chan struct{})
	go r.recordLoop(ctx, stream, r.done)
	return nil
}

func (r *PortAudioRecorder) open(deviceIndex int) (*portaudio.Stream, error) {
	if deviceIndex < 0 {
		return portaudio.OpenDefaultStream(1, 0, float64(r.sampleRate), framesPerBuffer, r.buffer)
	}
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	if deviceIndex >= len(infos) || infos[deviceIndex].MaxInputChannels < 1 {
		return nil, fmt.Errorf("audio device index %d is not an input device", deviceIndex)
	}
	params := portaudio.LowLatencyParameters(infos[deviceIndex], nil)
	params.Input.Channels = 1
	params.SampleRate = float64(r.sampleRate)
	params.FramesPerBuffer = framesPerBuffer
	return portaudio.OpenStream(params, r.buffer)
}

func (r *PortAudioRecorder) recordLoop(ctx context.Context, stream *portaudio.Stream, done chan struct{}) {
	defer close(done)
	running := func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.running
	}
	store := func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		if !r.running {
			return false
		}
		r.samples = append(r.samples, r.buffer...)
		return true
	}
	if err := capture(ctx, stream.Read, running, store, readErrorPause); err != nil {
		r.mu.Lock()
		r.readErr = err
		r.mu.Unlock()
	}
}

func (r *PortAudioRecorder) Stop() ([]int16, error) {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil, nil
	}
	r.running = false
	stream := r.stream
	r.stream = nil
	done := r.done
	r.mu.Unlock()

	<-done
	stopErr := stream.Stop()
	closeErr := stream.Close()

	r.mu.Lock()
	samples := r.samples
	readErr := r.readErr
	r.samples = nil
	r.readErr = nil
	r.mu.Unlock()

	if readErr != nil {
		return samples, readErr
	}
	if stopErr != nil {
		return samples, stopErr
	}
	return samples, closeErr
}

func (r *PortAudioRecorder) SampleRate() int {
	return r.sampleRate
}

func (r *PortAudioRecorder) Close() error {
	if _, err := r.Stop(); err != nil {
		return err
	}
	return portaudio.Terminate()
}

//go:build !portaudio

package audio

import (
	"errors"

	"github.com/foxseedlab/leopard/internal/audio"
)

var ErrRecorderUnavailable = errors.New("microphone capture requires a build with -tags portaudio")

func NewRecorder(_ int) (audio.Recorder, error) {
	return nil, ErrRecorderUnavailable
}

package engine

import "fmt"

// Handle identifies one initialized engine instance.
type Handle uintptr

type Status int

// Status codes returned by the native library.
const (
	StatusSuccess                Status = 0
	StatusOutOfMemory            Status = 1
	StatusIOError                Status = 2
	StatusInvalidArgument        Status = 3
	StatusStopIteration          Status = 4
	StatusKeyError               Status = 5
	StatusInvalidState           Status = 6
	StatusRuntimeError           Status = 7
	StatusActivationError        Status = 8
	StatusActivationLimitReached Status = 9
	StatusActivationThrottled    Status = 10
	StatusActivationRefused      Status = 11
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusOutOfMemory:
		return "OUT_OF_MEMORY"
	case StatusIOError:
		return "IO_ERROR"
	case StatusInvalidArgument:
		return "INVALID_ARGUMENT"
	case StatusStopIteration:
		return "STOP_ITERATION"
	case StatusKeyError:
		return "KEY_ERROR"
	case StatusInvalidState:
		return "INVALID_STATE"
	case StatusRuntimeError:
		return "RUNTIME_ERROR"
	case StatusActivationError:
		return "ACTIVATION_ERROR"
	case StatusActivationLimitReached:
		return "ACTIVATION_LIMIT_REACHED"
	case StatusActivationThrottled:
		return "ACTIVATION_THROTTLED"
	case StatusActivationRefused:
		return "ACTIVATION_REFUSED"
	default:
		return fmt.Sprintf("Unknown error code: %d", int(s))
	}
}

// Engine is the boundary of the speech-to-text library. Calls on a single
// Handle must not overlap.
type Engine interface {
	Init(accessKey, modelPath string) (Handle, Status)
	Delete(h Handle)
	Process(h Handle, pcm []int16) (string, Status)
	ProcessFile(h Handle, path string) (string, Status)
	SampleRate() int
	Version() string
}

type Loader interface {
	Load(libraryPath string) (Engine, error)
}

type LoaderFunc func(libraryPath string) (Engine, error)

func (f LoaderFunc) Load(libraryPath string) (Engine, error) {
	return f(libraryPath)
}

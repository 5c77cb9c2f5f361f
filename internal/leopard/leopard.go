package leopard

import (
	"errors"
	"os"
	"runtime"
	"sync"

	"github.com/foxseedlab/leopard/internal/engine"
)

// Config is validated by New only, never per field.
type Config struct {
	// AccessKey obtained from Picovoice Console (https://console.picovoice.ai/).
	AccessKey string

	// LibraryPath is the engine shared library. Falls back to Packaged when empty.
	LibraryPath string

	// ModelPath is the model parameter file. Falls back to Packaged when empty.
	ModelPath string

	// Packaged provides default paths. May be nil.
	Packaged *Packaged
}

// Leopard owns one engine handle from New until Close.
type Leopard struct {
	mu       sync.Mutex
	engine   engine.Engine
	handle   engine.Handle
	released bool

	sampleRate int
	version    string
}

// New validates cfg, loads the engine library through loader and initializes
// an engine instance. Checks run in the order access key, library, model and
// all of them happen before the loader is called.
func New(cfg Config, loader engine.Loader) (*Leopard, error) {
	if cfg.AccessKey == "" {
		return nil, newError(engine.StatusInvalidArgument, "AccessKey must not be empty")
	}

	libraryPath := cfg.LibraryPath
	if libraryPath == "" {
		if cfg.Packaged == nil || cfg.Packaged.LibraryPath == "" {
			return nil, newError(engine.StatusInvalidArgument,
				"Default library unavailable. Please provide a native Leopard library path (-l <library_path>).")
		}
		libraryPath = cfg.Packaged.LibraryPath
	}
	if _, err := os.Stat(libraryPath); err != nil {
		return nil, newError(engine.StatusIOError, "Couldn't find library file at '%s'", libraryPath)
	}

	modelPath := cfg.ModelPath
	if modelPath == "" {
		if cfg.Packaged == nil || cfg.Packaged.ModelPath == "" {
			return nil, newError(engine.StatusInvalidArgument,
				"Default model unavailable. Please provide a valid Leopard model path (-m <model_path>).")
		}
		modelPath = cfg.Packaged.ModelPath
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, newError(engine.StatusIOError, "Couldn't find model file at '%s'", modelPath)
	}

	if loader == nil {
		return nil, newError(engine.StatusRuntimeError, "no engine loader configured")
	}
	eng, err := loader.Load(libraryPath)
	if err != nil {
		var lerr *Error
		if errors.As(err, &lerr) {
			return nil, err
		}
		return nil, newError(engine.StatusRuntimeError, "Failed to load library at '%s': %v", libraryPath, err)
	}

	handle, status := eng.Init(cfg.AccessKey, modelPath)
	if err := NewError(status, "Leopard init failed"); err != nil {
		return nil, err
	}

	l := &Leopard{
		engine:     eng,
		handle:     handle,
		sampleRate: eng.SampleRate(),
		version:    eng.Version(),
	}
	runtime.SetFinalizer(l, (*Leopard).Close)
	return l, nil
}

// Do builds a Leopard, runs fn with it and releases it on every exit path.
func Do(cfg Config, loader engine.Loader, fn func(*Leopard) error) (err error) {
	l, err := New(cfg, loader)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := l.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(l)
}

// Process transcribes single-channel 16-bit linear PCM sampled at
// SampleRate. Calls overlapping another call on the same instance fail with
// ErrBusy instead of reaching the engine.
func (l *Leopard) Process(pcm []int16) (string, error) {
	if !l.mu.TryLock() {
		return "", ErrBusy
	}
	defer l.mu.Unlock()
	if l.released {
		return "", ErrReleased
	}

	transcript, status := l.engine.Process(l.handle, pcm)
	if err := NewError(status, "Leopard process failed"); err != nil {
		return "", err
	}
	return transcript, nil
}

// ProcessFile transcribes an audio file. The engine reads FLAC, MP3, Ogg,
// Opus, Vorbis, WAV and WebM with a sample rate at or above SampleRate.
func (l *Leopard) ProcessFile(path string) (string, error) {
	if !l.mu.TryLock() {
		return "", ErrBusy
	}
	defer l.mu.Unlock()
	if l.released {
		return "", ErrReleased
	}

	transcript, status := l.engine.ProcessFile(l.handle, path)
	if err := NewError(status, "Leopard process file failed"); err != nil {
		return "", ClarifyFileError(path, err)
	}
	return transcript, nil
}

// SampleRate is the rate Process expects, in Hz.
func (l *Leopard) SampleRate() int {
	return l.sampleRate
}

func (l *Leopard) Version() string {
	return l.version
}

// Close releases the engine handle. It waits for an in-flight call and
// returns ErrReleased if the handle was already released.
func (l *Leopard) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return ErrReleased
	}
	l.engine.Delete(l.handle)
	l.handle = 0
	l.released = true
	runtime.SetFinalizer(l, nil)
	return nil
}

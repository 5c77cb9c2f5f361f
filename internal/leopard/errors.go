package leopard

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/foxseedlab/leopard/internal/engine"
)

// Sentinel errors for the failure taxonomy. Every error returned by this
// package matches exactly one of them with errors.Is.
var (
	ErrInvalidArgument     = errors.New("leopard: invalid argument")
	ErrIO                  = errors.New("leopard: io error")
	ErrOutOfMemory         = errors.New("leopard: out of memory")
	ErrRuntime             = errors.New("leopard: runtime error")
	ErrActivation          = errors.New("leopard: activation error")
	ErrActivationLimit     = errors.New("leopard: activation limit reached")
	ErrActivationRefused   = errors.New("leopard: activation refused")
	ErrActivationThrottled = errors.New("leopard: activation throttled")
)

// Lifecycle errors. Both classify as ErrRuntime.
var (
	ErrReleased = &Error{Status: engine.StatusInvalidState, Message: "Leopard has already been released"}
	ErrBusy     = &Error{Status: engine.StatusInvalidState, Message: "Leopard instance is already processing on another goroutine"}
)

// Error carries the engine status alongside a readable message.
type Error struct {
	Status  engine.Status
	Message string

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{kindOf(e.Status), e.cause}
	}
	return []error{kindOf(e.Status)}
}

// NewError maps a native status onto the taxonomy. It returns nil for
// StatusSuccess.
func NewError(status engine.Status, message string) error {
	if status == engine.StatusSuccess {
		return nil
	}
	return &Error{Status: status, Message: message}
}

func newError(status engine.Status, format string, args ...any) error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func kindOf(status engine.Status) error {
	switch status {
	case engine.StatusInvalidArgument:
		return ErrInvalidArgument
	case engine.StatusIOError:
		return ErrIO
	case engine.StatusOutOfMemory:
		return ErrOutOfMemory
	case engine.StatusActivationError:
		return ErrActivation
	case engine.StatusActivationLimitReached:
		return ErrActivationLimit
	case engine.StatusActivationRefused:
		return ErrActivationRefused
	case engine.StatusActivationThrottled:
		return ErrActivationThrottled
	default:
		return ErrRuntime
	}
}

// ClarifyFileError rewrites an invalid-argument failure for path when the
// file extension is outside the supported set. Any other error is returned
// unchanged. The path is inspected as a string only.
func ClarifyFileError(path string, err error) error {
	if err == nil || !errors.Is(err, ErrInvalidArgument) {
		return err
	}
	base := filepath.Base(path)
	dot := strings.LastIndex(base, ".")
	if dot < 0 {
		return err
	}
	ext := base[dot+1:]
	if IsSupportedExtension(ext) {
		return err
	}
	return &Error{
		Status:  engine.StatusInvalidArgument,
		Message: fmt.Sprintf("Specified file with extension '%s' is not supported", ext),
		cause:   err,
	}
}

// Package leopard is the client for the Leopard speech-to-text engine.
//
// The engine itself is opaque. This package validates configuration, owns
// the lifetime of one engine handle and turns native status codes into
// typed errors.
//
// # Basic Usage
//
//	l, err := leopard.New(leopard.Config{
//		AccessKey:   accessKey,
//		LibraryPath: "/opt/leopard/libpv_leopard.so",
//		ModelPath:   "/opt/leopard/leopard_params.pv",
//	}, native.Loader())
//	if err != nil {
//		return err
//	}
//	defer l.Close()
//
//	text, err := l.ProcessFile("speech.wav")
//
// Do wraps the same sequence and guarantees the release:
//
//	err := leopard.Do(cfg, native.Loader(), func(l *leopard.Leopard) error {
//		text, err := l.ProcessFile("speech.wav")
//		...
//	})
//
// # Errors
//
// Every failure is an *Error that matches one of the sentinel errors with
// errors.Is:
//
//	if errors.Is(err, leopard.ErrActivationLimit) {
//		// the AccessKey ran out of quota
//	}
//
// # Thread Safety
//
// A Leopard must be used from one goroutine at a time. Overlapping calls are
// rejected with ErrBusy. Separate instances are independent.
package leopard

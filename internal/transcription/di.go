package transcription

import (
	"github.com/foxseedlab/leopard/internal/audio"
	"github.com/foxseedlab/leopard/internal/repository"
	"github.com/foxseedlab/leopard/internal/transcriber"
	"github.com/foxseedlab/leopard/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		// The transcriber holds an engine handle, so it is built last.
		decoder, err := do.Invoke[audio.Decoder](i)
		if err != nil {
			return nil, err
		}
		repo, err := do.Invoke[repository.TranscriptRepository](i)
		if err != nil {
			return nil, err
		}
		wh, err := do.Invoke[webhook.Sender](i)
		if err != nil {
			return nil, err
		}
		stt, err := do.Invoke[transcriber.Transcriber](i)
		if err != nil {
			return nil, err
		}
		return NewService(stt, decoder, repo, wh), nil
	})
}

package transcriber

import (
	"context"
	"fmt"

	"github.com/foxseedlab/leopard/internal/config"
	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/foxseedlab/leopard/internal/leopard"
	"github.com/foxseedlab/leopard/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Transcriber, error) {
		c := do.MustInvoke[*config.Config](i)
		switch c.Engine {
		case config.EngineCloudSpeech:
			t, err := NewCloudSpeechTranscriber(context.Background(), CloudSpeechConfig{
				ProjectID:       c.GoogleCloudProjectID,
				CredentialsJSON: c.GoogleCloudCredentialsJSON,
				Language:        c.GoogleCloudSpeechLanguage,
				Location:        c.GoogleCloudSpeechLocation,
				Model:           c.GoogleCloudSpeechModel,
			})
			if err != nil {
				return nil, err
			}
			return t, nil
		case config.EngineLeopard:
			loader := do.MustInvoke[engine.Loader](i)
			t, err := NewLeopardTranscriber(LeopardConfig(c), loader)
			if err != nil {
				return nil, err
			}
			return t, nil
		default:
			return nil, fmt.Errorf("unknown engine %q", c.Engine)
		}
	})
}

// LeopardConfig builds the client configuration from application settings.
func LeopardConfig(c *config.Config) leopard.Config {
	return leopard.Config{
		AccessKey:   c.LeopardAccessKey,
		LibraryPath: c.LeopardLibraryPath,
		ModelPath:   c.LeopardModelPath,
		Packaged:    leopard.PackagedIn(c.LeopardResourceDir),
	}
}

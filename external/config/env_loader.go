package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/leopard/internal/config"
)

type envConfig struct {
	Env                        string `env:"ENV" envDefault:"production"`
	Engine                     string `env:"LEOPARD_ENGINE" envDefault:"leopard"`
	LeopardAccessKey           string `env:"LEOPARD_ACCESS_KEY"`
	LeopardLibraryPath         string `env:"LEOPARD_LIBRARY_PATH"`
	LeopardModelPath           string `env:"LEOPARD_MODEL_PATH"`
	LeopardResourceDir         string `env:"LEOPARD_RESOURCE_DIR"`
	ListenAddr                 string `env:"LISTEN_ADDR" envDefault:"127.0.0.1:11531"`
	DatabaseURL                string `env:"DATABASE_URL"`
	TranscriptWebhookURL       string `env:"TRANSCRIPT_WEBHOOK_URL"`
	GoogleCloudProjectID       string `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"global"`
	GoogleCloudSpeechModel     string `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"long"`
	GoogleCloudSpeechLanguage  string `env:"GOOGLE_CLOUD_SPEECH_LANGUAGE" envDefault:"en-US"`
}

// Load reads the environment without validating it, so command-line flags can
// still override values before Validate runs.
func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid: %w", err)
	}

	return &internalconfig.Config{
		Env:                        raw.Env,
		Engine:                     raw.Engine,
		LeopardAccessKey:           raw.LeopardAccessKey,
		LeopardLibraryPath:         raw.LeopardLibraryPath,
		LeopardModelPath:           raw.LeopardModelPath,
		LeopardResourceDir:         raw.LeopardResourceDir,
		ListenAddr:                 raw.ListenAddr,
		DatabaseURL:                raw.DatabaseURL,
		TranscriptWebhookURL:       raw.TranscriptWebhookURL,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
		GoogleCloudSpeechLanguage:  raw.GoogleCloudSpeechLanguage,
	}, nil
}

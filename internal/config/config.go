package config

import "fmt"

const (
	EngineLeopard     = "leopard"
	EngineCloudSpeech = "cloudspeech"
)

type Config struct {
	Env                        string
	Engine                     string
	LeopardAccessKey           string
	LeopardLibraryPath         string
	LeopardModelPath           string
	LeopardResourceDir         string
	ListenAddr                 string
	DatabaseURL                string
	TranscriptWebhookURL       string
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string
	GoogleCloudSpeechLanguage  string
}

// Validate checks application settings. The Leopard access key and paths are
// left to leopard.New so their failures keep the engine error taxonomy.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineLeopard:
	case EngineCloudSpeech:
		for _, req := range c.cloudSpeechFieldChecks() {
			if req.value == "" {
				return fmt.Errorf("%s is required when LEOPARD_ENGINE=%s", req.name, EngineCloudSpeech)
			}
		}
	default:
		return fmt.Errorf("LEOPARD_ENGINE must be %q or %q, got %q", EngineLeopard, EngineCloudSpeech, c.Engine)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR is required")
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) cloudSpeechFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "GOOGLE_CLOUD_PROJECT_ID", value: c.GoogleCloudProjectID},
		{name: "GOOGLE_CLOUD_CREDENTIALS_JSON", value: c.GoogleCloudCredentialsJSON},
		{name: "GOOGLE_CLOUD_SPEECH_LOCATION", value: c.GoogleCloudSpeechLocation},
		{name: "GOOGLE_CLOUD_SPEECH_MODEL", value: c.GoogleCloudSpeechModel},
		{name: "GOOGLE_CLOUD_SPEECH_LANGUAGE", value: c.GoogleCloudSpeechLanguage},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

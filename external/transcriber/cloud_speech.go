package transcriber

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cloud.google.com/go/auth/credentials"
	speech "cloud.google.com/go/speech/apiv2"
	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/foxseedlab/leopard/internal/leopard"
	"github.com/foxseedlab/leopard/internal/transcriber"
	"github.com/samber/do/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	speechAPIEndpointPort = 443
	pcmSampleRateHertz    = 16000
	pcmChannelCount       = 1
	cloudSpeechEngineName = "cloudspeech"
)

type CloudSpeechConfig struct {
	ProjectID       string
	CredentialsJSON string
	Language        string
	Location        string
	Model           string
}

type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

type CloudSpeechTranscriber struct {
	recognizer string
	language   string
	model      string
	recognize  recognizeFunc
	closeFn    func() error
}

var (
	_ transcriber.Transcriber = (*CloudSpeechTranscriber)(nil)
	_ do.ShutdownerWithError  = (*CloudSpeechTranscriber)(nil)
)

func NewCloudSpeechTranscriber(ctx context.Context, cfg CloudSpeechConfig) (*CloudSpeechTranscriber, error) {
	location := strings.TrimSpace(cfg.Location)
	model := strings.TrimSpace(cfg.Model)

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(cfg.CredentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return nil, fmt.Errorf("detect credentials: %w", err)
	}

	opts := []option.ClientOption{
		option.WithAuthCredentials(creds),
	}
	if location != "global" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-speech.googleapis.com:%d", location, speechAPIEndpointPort)))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	slog.Info("cloud speech client initialized", "location", location, "model", model, "language", cfg.Language)

	t := newCloudSpeechTranscriber(cfg.ProjectID, location, model, cfg.Language,
		func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
			return client.Recognize(ctx, req)
		})
	t.closeFn = client.Close
	return t, nil
}

func newCloudSpeechTranscriber(projectID, location, model, language string, recognize recognizeFunc) *CloudSpeechTranscriber {
	return &CloudSpeechTranscriber{
		recognizer: fmt.Sprintf("projects/%s/locations/%s/recognizers/_", projectID, location),
		language:   language,
		model:      model,
		recognize:  recognize,
		closeFn:    func() error { return nil },
	}
}

// TranscribeFile uploads the file content and lets the service detect the
// container format.
func (t *CloudSpeechTranscriber) TranscribeFile(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", leopard.NewError(engine.StatusIOError, fmt.Sprintf("Couldn't read audio file at '%s'", path))
	}

	cfg := t.recognitionConfig()
	cfg.DecodingConfig = &speechpb.RecognitionConfig_AutoDecodingConfig{
		AutoDecodingConfig: &speechpb.AutoDetectDecodingConfig{},
	}
	text, err := t.run(ctx, content, cfg)
	if err != nil {
		return "", leopard.ClarifyFileError(path, classifyStatus(err, "cloud speech recognize file failed"))
	}
	return text, nil
}

func (t *CloudSpeechTranscriber) TranscribePCM(ctx context.Context, pcm []int16) (string, error) {
	cfg := t.recognitionConfig()
	cfg.DecodingConfig = &speechpb.RecognitionConfig_ExplicitDecodingConfig{
		ExplicitDecodingConfig: &speechpb.ExplicitDecodingConfig{
			Encoding:          speechpb.ExplicitDecodingConfig_LINEAR16,
			SampleRateHertz:   pcmSampleRateHertz,
			AudioChannelCount: pcmChannelCount,
		},
	}
	text, err := t.run(ctx, pcmBytes(pcm), cfg)
	if err != nil {
		return "", classifyStatus(err, "cloud speech recognize failed")
	}
	return text, nil
}

func (t *CloudSpeechTranscriber) recognitionConfig() *speechpb.RecognitionConfig {
	return &speechpb.RecognitionConfig{
		Model:         t.model,
		LanguageCodes: []string{t.language},
		Features:      &speechpb.RecognitionFeatures{EnableAutomaticPunctuation: true},
	}
}

func (t *CloudSpeechTranscriber) run(ctx context.Context, content []byte, cfg *speechpb.RecognitionConfig) (string, error) {
	resp, err := t.recognize(ctx, &speechpb.RecognizeRequest{
		Recognizer:  t.recognizer,
		Config:      cfg,
		AudioSource: &speechpb.RecognizeRequest_Content{Content: content},
	})
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(resp.GetResults()))
	for _, result := range resp.GetResults() {
		if len(result.GetAlternatives()) == 0 {
			continue
		}
		if text := strings.TrimSpace(result.GetAlternatives()[0].GetTranscript()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

func (t *CloudSpeechTranscriber) SampleRate() int {
	return pcmSampleRateHertz
}

func (t *CloudSpeechTranscriber) Name() string {
	return cloudSpeechEngineName
}

func (t *CloudSpeechTranscriber) Version() string {
	return t.model
}

func (t *CloudSpeechTranscriber) Close() error {
	return t.closeFn()
}

func (t *CloudSpeechTranscriber) Shutdown() error {
	return t.Close()
}

func pcmBytes(pcm []int16) []byte {
	buf := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

// classifyStatus maps gRPC failures onto the engine error taxonomy.
func classifyStatus(err error, message string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	st, ok := status.FromError(err)
	if !ok {
		return leopard.NewError(engine.StatusRuntimeError, fmt.Sprintf("%s: %v", message, err))
	}

	var s engine.Status
	switch st.Code() {
	case codes.InvalidArgument:
		s = engine.StatusInvalidArgument
	case codes.Unauthenticated, codes.PermissionDenied:
		s = engine.StatusActivationError
	case codes.ResourceExhausted:
		s = engine.StatusActivationThrottled
	case codes.NotFound:
		s = engine.StatusIOError
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	default:
		s = engine.StatusRuntimeError
	}
	return leopard.NewError(s, fmt.Sprintf("%s: %s", message, st.Message()))
}

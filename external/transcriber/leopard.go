package transcriber

import (
	"context"
	"log/slog"

	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/foxseedlab/leopard/internal/leopard"
	"github.com/foxseedlab/leopard/internal/transcriber"
	"github.com/samber/do/v2"
)

const leopardEngineName = "leopard"

type LeopardTranscriber struct {
	client *leopard.Leopard
}

var (
	_ transcriber.Transcriber = (*LeopardTranscriber)(nil)
	_ do.ShutdownerWithError  = (*LeopardTranscriber)(nil)
)

func NewLeopardTranscriber(cfg leopard.Config, loader engine.Loader) (*LeopardTranscriber, error) {
	client, err := leopard.New(cfg, loader)
	if err != nil {
		return nil, err
	}
	slog.Info("leopard engine initialized", "version", client.Version(), "sample_rate", client.SampleRate())
	return &LeopardTranscriber{client: client}, nil
}

// TranscribeFile checks ctx only before the call; the engine cannot be
// interrupted once it starts.
func (t *LeopardTranscriber) TranscribeFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return t.client.ProcessFile(path)
}

func (t *LeopardTranscriber) TranscribePCM(ctx context.Context, pcm []int16) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return t.client.Process(pcm)
}

func (t *LeopardTranscriber) SampleRate() int {
	return t.client.SampleRate()
}

func (t *LeopardTranscriber) Name() string {
	return leopardEngineName
}

func (t *LeopardTranscriber) Version() string {
	return t.client.Version()
}

func (t *LeopardTranscriber) Close() error {
	return t.client.Close()
}

// Shutdown releases the engine handle when the injector shuts down.
func (t *LeopardTranscriber) Shutdown() error {
	return t.Close()
}

package transcription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/foxseedlab/leopard/internal/audio"
	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/foxseedlab/leopard/internal/leopard"
	"github.com/foxseedlab/leopard/internal/repository"
	"github.com/foxseedlab/leopard/internal/transcriber"
	"github.com/foxseedlab/leopard/internal/webhook"
)

const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 100
)

type Request struct {
	// Path is a local audio file.
	Path string
	// Source is recorded in history. Defaults to the base name of Path.
	Source string
	Mode   repository.Mode
}

type EngineInfo struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	SampleRate int    `json:"sample_rate"`
}

type Service struct {
	transcriber transcriber.Transcriber
	decoder     audio.Decoder
	repo        repository.TranscriptRepository
	webhook     webhook.Sender
}

func NewService(stt transcriber.Transcriber, decoder audio.Decoder, repo repository.TranscriptRepository, wh webhook.Sender) *Service {
	return &Service{
		transcriber: stt,
		decoder:     decoder,
		repo:        repo,
		webhook:     wh,
	}
}

// TranscribeFile runs one file through the backend. ModeFile hands the file to
// the backend as is; ModePCM decodes it here first.
func (s *Service) TranscribeFile(ctx context.Context, req Request) (*repository.Transcript, error) {
	source := req.Source
	if source == "" {
		source = filepath.Base(req.Path)
	}
	mode := req.Mode
	if mode == "" {
		mode = repository.ModeFile
	}

	started := time.Now()
	var text string
	var err error
	switch mode {
	case repository.ModeFile:
		text, err = s.transcriber.TranscribeFile(ctx, req.Path)
	case repository.ModePCM:
		var pcm []int16
		pcm, err = s.decodePCM(req.Path)
		if err != nil {
			return nil, err
		}
		text, err = s.transcriber.TranscribePCM(ctx, pcm)
	default:
		return nil, leopard.NewError(engine.StatusInvalidArgument, fmt.Sprintf("unknown transcription mode '%s'", mode))
	}
	if err != nil {
		slog.Error("transcription failed", "error", err, "source", source, "mode", mode)
		return nil, err
	}
	return s.record(ctx, source, mode, text, time.Since(started))
}

// TranscribeSamples transcribes mono samples already at the backend sample rate.
func (s *Service) TranscribeSamples(ctx context.Context, source string, pcm []int16) (*repository.Transcript, error) {
	started := time.Now()
	text, err := s.transcriber.TranscribePCM(ctx, pcm)
	if err != nil {
		slog.Error("transcription failed", "error", err, "source", source, "mode", repository.ModeMic)
		return nil, err
	}
	return s.record(ctx, source, repository.ModeMic, text, time.Since(started))
}

func (s *Service) decodePCM(path string) ([]int16, error) {
	decoded, err := s.decoder.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	mono, err := audio.ToMono(decoded, s.transcriber.SampleRate())
	if errors.Is(err, audio.ErrUnsupportedRate) {
		return nil, leopard.NewError(engine.StatusInvalidArgument, err.Error())
	}
	if err != nil {
		return nil, leopard.NewError(engine.StatusInvalidArgument, fmt.Sprintf("failed to convert audio: %v", err))
	}
	return mono.Samples, nil
}

func (s *Service) record(ctx context.Context, source string, mode repository.Mode, text string, elapsed time.Duration) (*repository.Transcript, error) {
	info := s.Engine()
	t, err := s.repo.InsertTranscript(ctx, repository.InsertTranscriptInput{
		Source:        source,
		Mode:          mode,
		Engine:        info.Name,
		EngineVersion: info.Version,
		Text:          text,
		ElapsedMillis: elapsed.Milliseconds(),
	})
	if err != nil {
		slog.Error("failed to insert transcript", "error", err, "source", source)
		return nil, fmt.Errorf("save transcript: %w", err)
	}
	slog.Info("transcript created", "transcript_id", t.ID, "source", source, "mode", mode, "elapsed_ms", t.ElapsedMillis)

	if err := s.webhook.SendTranscript(ctx, toPayload(t)); err != nil {
		slog.Error("failed to send webhook transcript", "error", err, "transcript_id", t.ID)
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*repository.Transcript, error) {
	return s.repo.GetTranscript(ctx, id)
}

// Recent clamps limit to [1, MaxRecentLimit]; zero or less means DefaultRecentLimit.
func (s *Service) Recent(ctx context.Context, limit int) ([]repository.Transcript, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	limit = min(limit, MaxRecentLimit)
	return s.repo.ListRecentTranscripts(ctx, limit)
}

func (s *Service) Engine() EngineInfo {
	return EngineInfo{
		Name:       s.transcriber.Name(),
		Version:    s.transcriber.Version(),
		SampleRate: s.transcriber.SampleRate(),
	}
}

func toPayload(t *repository.Transcript) webhook.TranscriptPayload {
	return webhook.TranscriptPayload{
		ID:            t.ID,
		Source:        t.Source,
		Mode:          string(t.Mode),
		Engine:        t.Engine,
		EngineVersion: t.EngineVersion,
		Text:          t.Text,
		ElapsedMillis: t.ElapsedMillis,
		CreatedAt:     t.CreatedAt,
	}
}

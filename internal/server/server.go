package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/foxseedlab/leopard/internal/repository"
	"github.com/foxseedlab/leopard/internal/transcription"
)

const (
	maxUploadSize   = 1 << 30 // 1 GB
	shutdownTimeout = 30 * time.Second
)

// Service is the part of transcription.Service the HTTP surface needs.
type Service interface {
	TranscribeFile(ctx context.Context, req transcription.Request) (*repository.Transcript, error)
	Get(ctx context.Context, id string) (*repository.Transcript, error)
	Recent(ctx context.Context, limit int) ([]repository.Transcript, error)
	Engine() transcription.EngineInfo
}

type Server struct {
	svc Service
}

func New(svc Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/engine", s.handleEngine)
	mux.HandleFunc("POST /v1/audio/transcriptions", s.handleTranscription)
	mux.HandleFunc("GET /v1/transcripts", s.handleListTranscripts)
	mux.HandleFunc("GET /v1/transcripts/{id}", s.handleGetTranscript)
	return mux
}

// ListenAndServe serves on addr until ctx is done, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	slog.Info("listening", "addr", ln.Addr().String())

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

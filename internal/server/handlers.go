package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/foxseedlab/leopard/internal/leopard"
	"github.com/foxseedlab/leopard/internal/repository"
	"github.com/foxseedlab/leopard/internal/transcription"
)

type transcriptResponse struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Mode          string    `json:"mode"`
	Engine        string    `json:"engine"`
	EngineVersion string    `json:"engine_version"`
	Text          string    `json:"text"`
	ElapsedMillis int64     `json:"elapsed_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

func toResponse(t *repository.Transcript) transcriptResponse {
	return transcriptResponse{
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

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEngine(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Engine())
}

// handleTranscription spools the upload to a temp file that keeps the
// client's extension, since the engine picks a decoder from it.
func (s *Server) handleTranscription(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing or invalid 'file' field: "+err.Error())
		return
	}
	defer file.Close()

	mode := repository.Mode(r.FormValue("mode"))
	switch mode {
	case "":
		mode = repository.ModeFile
	case repository.ModeFile, repository.ModePCM:
	default:
		writeError(w, http.StatusBadRequest, "mode must be 'file' or 'pcm'")
		return
	}

	responseFormat := r.FormValue("response_format")
	switch responseFormat {
	case "":
		responseFormat = "json"
	case "json", "text":
	default:
		writeError(w, http.StatusBadRequest, "response_format must be 'json' or 'text'")
		return
	}

	filename := filepath.Base(header.Filename)
	path, cleanup, err := spool(file, filepath.Ext(filename))
	if err != nil {
		slog.Error("failed to buffer upload", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to buffer upload: "+err.Error())
		return
	}
	defer cleanup()

	t, err := s.svc.TranscribeFile(r.Context(), transcription.Request{
		Path:   path,
		Source: filename,
		Mode:   mode,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		writeError(w, statusFor(err), err.Error())
		return
	}

	if responseFormat == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, t.Text)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(t))
}

func (s *Server) handleListTranscripts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	list, err := s.svc.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list transcripts", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	data := make([]transcriptResponse, 0, len(list))
	for i := range list {
		data = append(data, toResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toResponse(t))
}

func spool(src io.Reader, ext string) (string, func(), error) {
	tmp, err := os.CreateTemp("", "leopard-upload-*"+ext)
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return tmp.Name(), cleanup, nil
}

// statusFor maps the engine error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, leopard.ErrBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, leopard.ErrReleased):
		return http.StatusServiceUnavailable
	case errors.Is(err, leopard.ErrInvalidArgument), errors.Is(err, leopard.ErrIO):
		return http.StatusBadRequest
	case errors.Is(err, leopard.ErrActivation), errors.Is(err, leopard.ErrActivationRefused):
		return http.StatusForbidden
	case errors.Is(err, leopard.ErrActivationLimit), errors.Is(err, leopard.ErrActivationThrottled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

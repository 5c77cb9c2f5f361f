package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/foxseedlab/leopard/internal/leopard"
	"github.com/foxseedlab/leopard/internal/repository"
	"github.com/foxseedlab/leopard/internal/transcription"
)

type fakeService struct {
	requests    []transcription.Request
	spooled     []byte
	err         error
	transcripts map[string]*repository.Transcript
	lastLimit   int
}

func (f *fakeService) TranscribeFile(_ context.Context, req transcription.Request) (*repository.Transcript, error) {
	f.requests = append(f.requests, req)
	f.spooled, _ = os.ReadFile(req.Path)
	if f.err != nil {
		return nil, f.err
	}
	return &repository.Transcript{ID: "t-1", Source: req.Source, Mode: req.Mode, Text: "hello world"}, nil
}

func (f *fakeService) Get(_ context.Context, id string) (*repository.Transcript, error) {
	t, ok := f.transcripts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeService) Recent(_ context.Context, limit int) ([]repository.Transcript, error) {
	f.lastLimit = limit
	var list []repository.Transcript
	for _, t := range f.transcripts {
		list = append(list, *t)
	}
	return list, nil
}

func (f *fakeService) Engine() transcription.EngineInfo {
	return transcription.EngineInfo{Name: "leopard", Version: "2.0.0", SampleRate: 16000}
}

func uploadRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/audio/transcriptions", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	New(&fakeService{}).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestEngine(t *testing.T) {
	rec := httptest.NewRecorder()
	New(&fakeService{}).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/engine", nil))

	var got transcription.EngineInfo
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if got.Name != "leopard" || got.SampleRate != 16000 {
		t.Fatalf("unexpected engine info: %+v", got)
	}
}

func TestTranscription_JSON(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()
	New(svc).Handler().ServeHTTP(rec, uploadRequest(t, "speech.wav", []byte("RIFFDATA"), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}
	var got transcriptResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if got.Text != "hello world" || got.Source != "speech.wav" || got.Mode != "file" {
		t.Fatalf("unexpected response: %+v", got)
	}

	req := svc.requests[0]
	if filepath.Ext(req.Path) != ".wav" {
		t.Fatalf("spooled file must keep the extension, got %q", req.Path)
	}
	if string(svc.spooled) != "RIFFDATA" {
		t.Fatalf("unexpected spooled content: %q", svc.spooled)
	}
	if _, err := os.Stat(req.Path); !os.IsNotExist(err) {
		t.Fatalf("spooled file must be removed, stat err=%v", err)
	}
}

func TestTranscription_TextAndPCMMode(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()
	req := uploadRequest(t, "speech.wav", []byte("x"), map[string]string{"mode": "pcm", "response_format": "text"})
	New(svc).Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != "hello world" {
		t.Fatalf("unexpected body: %q", body)
	}
	if svc.requests[0].Mode != repository.ModePCM {
		t.Fatalf("unexpected mode: %q", svc.requests[0].Mode)
	}
}

func TestTranscription_BadInput(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]string
	}{
		{name: "mode", fields: map[string]string{"mode": "stream"}},
		{name: "format", fields: map[string]string{"response_format": "srt"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := httptest.NewRecorder()
			New(svc).Handler().ServeHTTP(rec, uploadRequest(t, "speech.wav", []byte("x"), tc.fields))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status: %d", rec.Code)
			}
			if len(svc.requests) != 0 {
				t.Fatal("service must not be called")
			}
		})
	}
}

func TestTranscription_MissingFile(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/audio/transcriptions", nil)
	New(&fakeService{}).Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestTranscription_ErrorStatus(t *testing.T) {
	svc := &fakeService{err: leopard.NewError(engine.StatusActivationRefused, "Leopard process file failed")}
	rec := httptest.NewRecorder()
	New(svc).Handler().ServeHTTP(rec, uploadRequest(t, "speech.wav", []byte("x"), nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{leopard.NewError(engine.StatusInvalidArgument, "x"), http.StatusBadRequest},
		{leopard.NewError(engine.StatusIOError, "x"), http.StatusBadRequest},
		{leopard.NewError(engine.StatusActivationError, "x"), http.StatusForbidden},
		{leopard.NewError(engine.StatusActivationLimitReached, "x"), http.StatusTooManyRequests},
		{leopard.NewError(engine.StatusActivationThrottled, "x"), http.StatusTooManyRequests},
		{leopard.ErrBusy, http.StatusTooManyRequests},
		{leopard.ErrReleased, http.StatusServiceUnavailable},
		{leopard.NewError(engine.StatusRuntimeError, "x"), http.StatusInternalServerError},
		{repository.ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("%v: got %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestTranscripts(t *testing.T) {
	svc := &fakeService{transcripts: map[string]*repository.Transcript{
		"abc": {ID: "abc", Text: "stored", Mode: repository.ModeFile},
	}}
	h := New(svc).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/transcripts/abc", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/transcripts/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/transcripts?limit=5", nil))
	if rec.Code != http.StatusOK || svc.lastLimit != 5 {
		t.Fatalf("unexpected list result: %d limit=%d", rec.Code, svc.lastLimit)
	}
	var got struct {
		Data []transcriptResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(got.Data) != 1 || got.Data[0].Text != "stored" {
		t.Fatalf("unexpected list: %+v", got.Data)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/transcripts?limit=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(&fakeService{}).ListenAndServe(ctx, "127.0.0.1:0")
	}()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/foxseedlab/leopard/internal/config"
	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/foxseedlab/leopard/internal/leopard"
)

type mockEngine struct {
	processCalls int
	deleted      bool
}

func (m *mockEngine) Init(string, string) (engine.Handle, engine.Status) {
	return engine.Handle(1), engine.StatusSuccess
}
func (m *mockEngine) Delete(engine.Handle) { m.deleted = true }
func (m *mockEngine) Process(engine.Handle, []int16) (string, engine.Status) {
	m.processCalls++
	return "pcm text", engine.StatusSuccess
}
func (m *mockEngine) ProcessFile(engine.Handle, string) (string, engine.Status) {
	return "file text", engine.StatusSuccess
}
func (m *mockEngine) SampleRate() int { return 16000 }
func (m *mockEngine) Version() string { return "2.0.0" }

func leopardFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	lib := filepath.Join(dir, "libpv_leopard.so")
	model := filepath.Join(dir, "leopard_params.pv")
	for _, p := range []string{lib, model} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}
	return lib, model
}

func TestLeopardTranscriber(t *testing.T) {
	lib, model := leopardFiles(t)
	eng := &mockEngine{}
	loader := engine.LoaderFunc(func(string) (engine.Engine, error) { return eng, nil })

	tr, err := NewLeopardTranscriber(leopard.Config{AccessKey: "k", LibraryPath: lib, ModelPath: model}, loader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, err := tr.TranscribeFile(context.Background(), "speech.wav")
	if err != nil || text != "file text" {
		t.Fatalf("unexpected result: %q %v", text, err)
	}
	if tr.Name() != "leopard" || tr.Version() != "2.0.0" || tr.SampleRate() != 16000 {
		t.Fatalf("unexpected engine info: %s %s %d", tr.Name(), tr.Version(), tr.SampleRate())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tr.TranscribePCM(ctx, []int16{1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if eng.processCalls != 0 {
		t.Fatal("engine must not be called with a canceled context")
	}

	if err := tr.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eng.deleted {
		t.Fatal("expected engine handle to be deleted")
	}
}

func TestLeopardConfig(t *testing.T) {
	cfg := LeopardConfig(&config.Config{
		LeopardAccessKey:   "k",
		LeopardLibraryPath: "/lib.so",
		LeopardModelPath:   "/model.pv",
	})
	if cfg.AccessKey != "k" || cfg.LibraryPath != "/lib.so" || cfg.ModelPath != "/model.pv" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Packaged != nil {
		t.Fatal("expected no packaged defaults without a resource dir")
	}
}

package leopard

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/foxseedlab/leopard/internal/engine"
)

func TestNewError_Success(t *testing.T) {
	if err := NewError(engine.StatusSuccess, "ok"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestErrorString(t *testing.T) {
	err := NewError(engine.StatusActivationRefused, "AccessKey refused")
	if err.Error() != "ACTIVATION_REFUSED: AccessKey refused" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestClarifyFileError(t *testing.T) {
	engineErr := NewError(engine.StatusInvalidArgument, "Leopard process file failed")

	cases := []struct {
		name        string
		path        string
		err         error
		wantChanged bool
		wantExt     string
	}{
		{name: "unsupported", path: "clip.xyz", err: engineErr, wantChanged: true, wantExt: "xyz"},
		{name: "supported", path: "clip.wav", err: engineErr},
		{name: "supported upper case", path: "CLIP.FLAC", err: engineErr},
		{name: "supported mixed case", path: "/tmp/clip.WaV", err: engineErr},
		{name: "no extension", path: "/tmp/clip", err: engineErr},
		{name: "dot in directory only", path: "/tmp/v1.2/clip", err: engineErr},
		{name: "non invalid argument", path: "clip.xyz", err: NewError(engine.StatusRuntimeError, "boom")},
		{name: "nil", path: "clip.xyz", err: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClarifyFileError(tc.path, tc.err)
			if !tc.wantChanged {
				if got != tc.err {
					t.Fatalf("expected error unchanged, got %v", got)
				}
				return
			}
			if !errors.Is(got, ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", got)
			}
			if !errors.Is(got, tc.err) {
				t.Fatal("clarified error must wrap the engine error")
			}
			if !strings.Contains(got.Error(), "'"+tc.wantExt+"'") {
				t.Fatalf("expected extension %q in %q", tc.wantExt, got.Error())
			}
		})
	}
}

func TestIsSupportedExtension(t *testing.T) {
	for _, ext := range []string{"wav", ".mp3", "OGG", ".WAV", "WebM", "webm", "opus", "flac"} {
		if !IsSupportedExtension(ext) {
			t.Fatalf("expected %q supported", ext)
		}
	}
	for _, ext := range []string{"xyz", "", "txt"} {
		if IsSupportedExtension(ext) {
			t.Fatalf("expected %q unsupported", ext)
		}
	}
	exts := SupportedExtensions()
	exts[0] = "mutated"
	if IsSupportedExtension("mutated") {
		t.Fatal("SupportedExtensions must return a copy")
	}
}

func TestPackagedIn(t *testing.T) {
	if PackagedIn("") != nil {
		t.Fatal("expected nil for empty dir")
	}
	p := PackagedIn("/res")
	if _, ok := platformDir(runtime.GOOS, runtime.GOARCH); !ok {
		if p != nil {
			t.Fatal("expected nil on unsupported platform")
		}
		return
	}
	if p == nil {
		t.Fatal("expected packaged paths")
	}
	if p.ModelPath != filepath.Join("/res", "lib", "common", "leopard_params.pv") {
		t.Fatalf("unexpected model path: %q", p.ModelPath)
	}
	if !strings.HasPrefix(filepath.Base(p.LibraryPath), "libpv_leopard.") {
		t.Fatalf("unexpected library path: %q", p.LibraryPath)
	}
}

func TestPlatformDir(t *testing.T) {
	if dir, ok := platformDir("darwin", "arm64"); !ok || dir != filepath.Join("mac", "arm64") {
		t.Fatalf("unexpected darwin/arm64 dir: %q %v", dir, ok)
	}
	if _, ok := platformDir("plan9", "386"); ok {
		t.Fatal("expected plan9 unsupported")
	}
	if libraryExt("windows") != ".dll" || libraryExt("linux") != ".so" {
		t.Fatal("unexpected library extension")
	}
}

package audio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/foxseedlab/leopard/internal/leopard"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, sampleRate, bitDepth, channels int, data []int) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "speech.wav")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("failed to create wav: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("failed to write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to close encoder: %v", err)
	}
	return p
}

func TestDecodeFile_WAV(t *testing.T) {
	p := writeWAV(t, 48000, 16, 2, []int{100, -100, 2000, -2000, 32767, -32768})

	pcm, err := NewFileDecoder().DecodeFile(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pcm.SampleRate != 48000 || pcm.Channels != 2 {
		t.Fatalf("unexpected format: %d Hz %d ch", pcm.SampleRate, pcm.Channels)
	}
	want := []int16{100, -100, 2000, -2000, 32767, -32768}
	if len(pcm.Samples) != len(want) {
		t.Fatalf("unexpected sample count: %d", len(pcm.Samples))
	}
	for i := range want {
		if pcm.Samples[i] != want[i] {
			t.Fatalf("sample %d: got %d, want %d", i, pcm.Samples[i], want[i])
		}
	}
}

func TestDecodeFile_WAVWrongBitDepth(t *testing.T) {
	p := writeWAV(t, 16000, 8, 1, []int{1, 2, 3, 4})

	_, err := NewFileDecoder().DecodeFile(p)
	if !errors.Is(err, leopard.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestDecodeFile_NotAWAV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "noise.wav")
	if err := os.WriteFile(p, []byte("definitely not riff data"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := NewFileDecoder().DecodeFile(p); !errors.Is(err, leopard.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestDecodeFile_Missing(t *testing.T) {
	_, err := NewFileDecoder().DecodeFile(filepath.Join(t.TempDir(), "missing.wav"))
	if !errors.Is(err, leopard.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestDecodeFile_UnsupportedExtension(t *testing.T) {
	_, err := NewFileDecoder().DecodeFile("clip.xyz")
	if !errors.Is(err, leopard.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if !strings.Contains(err.Error(), "'xyz'") {
		t.Fatalf("expected extension in message, got %q", err.Error())
	}
}

package audio

import (
	"errors"
	"testing"
)

func TestDownmix(t *testing.T) {
	got, err := Downmix(PCM{Samples: []int16{100, 200, -50, 50, 7, 8}, SampleRate: 48000, Channels: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int16{150, 0, 7}
	if got.Channels != 1 || got.SampleRate != 48000 || len(got.Samples) != len(want) {
		t.Fatalf("unexpected pcm: %+v", got)
	}
	for i := range want {
		if got.Samples[i] != want[i] {
			t.Fatalf("sample %d: got %d, want %d", i, got.Samples[i], want[i])
		}
	}
}

func TestDownmix_Mono(t *testing.T) {
	in := PCM{Samples: []int16{1, 2, 3}, SampleRate: 16000, Channels: 1}
	got, err := Downmix(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Samples) != 3 {
		t.Fatalf("unexpected samples: %v", got.Samples)
	}
}

func TestDownmix_Ragged(t *testing.T) {
	if _, err := Downmix(PCM{Samples: []int16{1, 2, 3}, Channels: 2}); err == nil {
		t.Fatal("expected error for ragged input")
	}
	if _, err := Downmix(PCM{Samples: []int16{1}, Channels: 0}); err == nil {
		t.Fatal("expected error for zero channels")
	}
}

func TestResample(t *testing.T) {
	in := PCM{Samples: []int16{3, 3, 3, 6, 6, 6, 9}, SampleRate: 48000, Channels: 1}
	got, err := Resample(in, 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SampleRate != 16000 || len(got.Samples) != 2 || got.Samples[0] != 3 || got.Samples[1] != 6 {
		t.Fatalf("unexpected pcm: %+v", got)
	}
}

func TestResample_Unsupported(t *testing.T) {
	cases := []struct {
		name string
		from int
		to   int
	}{
		{name: "upsample", from: 8000, to: 16000},
		{name: "non integer ratio", from: 44100, to: 16000},
		{name: "zero target", from: 16000, to: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resample(PCM{Samples: []int16{1, 2}, SampleRate: tc.from, Channels: 1}, tc.to)
			if !errors.Is(err, ErrUnsupportedRate) {
				t.Fatalf("expected ErrUnsupportedRate, got %v", err)
			}
		})
	}
}

func TestToMono(t *testing.T) {
	in := PCM{Samples: []int16{10, 20, 10, 20, 10, 20, 40, 40, 40, 40, 40, 40}, SampleRate: 48000, Channels: 2}
	got, err := ToMono(in, 16000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Samples) != 2 || got.Samples[0] != 15 || got.Samples[1] != 40 {
		t.Fatalf("unexpected samples: %v", got.Samples)
	}
}

package transcriber

import "context"

// Transcriber turns audio into text. Implementations serve one request at a
// time unless they document otherwise.
type Transcriber interface {
	// TranscribeFile hands a whole audio file to the backend.
	TranscribeFile(ctx context.Context, path string) (string, error)
	// TranscribePCM transcribes mono 16-bit samples at SampleRate.
	TranscribePCM(ctx context.Context, pcm []int16) (string, error)
	SampleRate() int
	Name() string
	Version() string
	Close() error
}

package webhook

import (
	"context"
	"time"
)

type TranscriptPayload struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Mode          string    `json:"mode"`
	Engine        string    `json:"engine"`
	EngineVersion string    `json:"engine_version"`
	Text          string    `json:"text"`
	ElapsedMillis int64     `json:"elapsed_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

type Sender interface {
	SendTranscript(ctx context.Context, payload TranscriptPayload) error
}

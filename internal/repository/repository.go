package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("transcript not found")

type InsertTranscriptInput struct {
	Source        string
	Mode          Mode
	Engine        string
	EngineVersion string
	Text          string
	ElapsedMillis int64
}

type TranscriptRepository interface {
	InsertTranscript(ctx context.Context, input InsertTranscriptInput) (*Transcript, error)
	// GetTranscript returns ErrNotFound when id is unknown.
	GetTranscript(ctx context.Context, id string) (*Transcript, error)
	// ListRecentTranscripts returns at most limit transcripts, newest first.
	ListRecentTranscripts(ctx context.Context, limit int) ([]Transcript, error)
}

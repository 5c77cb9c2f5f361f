package repository

import "time"

type Mode string

const (
	ModeFile Mode = "file"
	ModePCM  Mode = "pcm"
	ModeMic  Mode = "mic"
)

type Transcript struct {
	ID            string
	Source        string
	Mode          Mode
	Engine        string
	EngineVersion string
	Text          string
	ElapsedMillis int64
	CreatedAt     time.Time
}

package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/foxseedlab/leopard/internal/audio"
	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/foxseedlab/leopard/internal/leopard"
)

// FileDecoder picks a decoder from the file extension.
type FileDecoder struct{}

var _ audio.Decoder = FileDecoder{}

func NewFileDecoder() FileDecoder {
	return FileDecoder{}
}

func (FileDecoder) DecodeFile(path string) (audio.PCM, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch strings.ToLower(ext) {
	case "wav":
		return decodeWAV(path)
	case "opus", "ogg", "oga":
		return decodeOpus(path)
	default:
		return audio.PCM{}, leopard.NewError(engine.StatusInvalidArgument,
			fmt.Sprintf("Specified file with extension '%s' is not supported", ext))
	}
}

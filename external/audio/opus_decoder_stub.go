//go:build !opus

package audio

import (
	"github.com/foxseedlab/leopard/internal/audio"
	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/foxseedlab/leopard/internal/leopard"
)

func decodeOpus(_ string) (audio.PCM, error) {
	return audio.PCM{}, leopard.NewError(engine.StatusRuntimeError, "Opus decoding requires a build with -tags opus")
}

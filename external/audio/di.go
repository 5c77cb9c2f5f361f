package audio

import (
	"github.com/foxseedlab/leopard/internal/audio"
	"github.com/samber/do/v2"
)

// RegisterDI provides the file decoder. The recorder is built on demand by the
// mic command because it needs the engine sample rate.
func RegisterDI(injector do.Injector) {
	do.ProvideValue[audio.Decoder](injector, NewFileDecoder())
}

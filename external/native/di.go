package native

import (
	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.ProvideValue[engine.Loader](injector, Loader())
}

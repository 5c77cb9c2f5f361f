//go:build !cgo || !(linux || darwin)

package native

import (
	"runtime"

	"github.com/foxseedlab/leopard/internal/engine"
	"github.com/foxseedlab/leopard/internal/leopard"
)

func load(libraryPath string) (engine.Engine, error) {
	return nil, leopard.NewError(engine.StatusRuntimeError,
		"native engine loading is not supported on "+runtime.GOOS+"/"+runtime.GOARCH+" without cgo")
}

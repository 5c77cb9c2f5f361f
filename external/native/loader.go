// Package native loads the Leopard shared library at runtime.
package native

import "github.com/foxseedlab/leopard/internal/engine"

// Loader returns the process-wide loader. A library path is opened at most
// once and stays mapped until the process exits.
func Loader() engine.Loader {
	return engine.LoaderFunc(load)
}

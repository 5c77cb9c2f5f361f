package leopard

import (
	"path/filepath"
	"runtime"
)

const (
	libraryBaseName = "libpv_leopard"
	modelFileName   = "leopard_params.pv"
)

// Packaged holds default file locations shipped next to the binary.
type Packaged struct {
	LibraryPath string
	ModelPath   string
}

// PackagedIn returns the expected library and model locations inside a
// resource directory laid out as lib/<os>/<cpu>/ and lib/common/. It returns
// nil when dir is empty or the platform has no packaged library.
func PackagedIn(dir string) *Packaged {
	if dir == "" {
		return nil
	}
	platform, ok := platformDir(runtime.GOOS, runtime.GOARCH)
	if !ok {
		return nil
	}
	return &Packaged{
		LibraryPath: filepath.Join(dir, "lib", platform, libraryBaseName+libraryExt(runtime.GOOS)),
		ModelPath:   filepath.Join(dir, "lib", "common", modelFileName),
	}
}

func platformDir(goos, goarch string) (string, bool) {
	switch goos + "/" + goarch {
	case "linux/amd64":
		return filepath.Join("linux", "x86_64"), true
	case "darwin/amd64":
		return filepath.Join("mac", "x86_64"), true
	case "darwin/arm64":
		return filepath.Join("mac", "arm64"), true
	case "windows/amd64":
		return filepath.Join("windows", "amd64"), true
	default:
		return "", false
	}
}

func libraryExt(goos string) string {
	switch goos {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

package leopard

import (
	"slices"
	"strings"
)

// Container formats the engine decodes in ProcessFile. The list only feeds
// error messages; the engine decides what it can read.
var supportedExtensions = []string{"flac", "mp3", "oga", "ogg", "opus", "wav", "webm"}

func SupportedExtensions() []string {
	return slices.Clone(supportedExtensions)
}

// IsSupportedExtension accepts an extension with or without the leading dot.
// Matching ignores case, so "WAV" is supported here even though the other
// Leopard bindings compare extensions case-sensitively and would reject it.
func IsSupportedExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	return slices.Contains(supportedExtensions, ext)
}

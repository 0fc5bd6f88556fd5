package utils

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename makes an uploaded filename safe to join to an upload
// directory: directory components are dropped, anything outside
// [A-Za-z0-9._-] becomes "_", and leading dots are stripped so the name
// can neither traverse upward nor hide. The extension survives intact
// since it drives pipeline dispatch.
func SanitizeFilename(name string) string {
	// Strip any directory part, from either path convention
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	cleaned := strings.TrimLeft(b.String(), ".")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

// FileExtension returns the lower-cased extension without the dot, empty
// if the name has none.
func FileExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return strings.TrimPrefix(ext, ".")
}

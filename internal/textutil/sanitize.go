package textutil

import (
	"path/filepath"
	"strings"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// AssetFileName derives the destination name for a source asset: the base
// name made filesystem-safe, whitespace collapsed to dashes, and the
// extension lower-cased. The same source always yields the same name, which
// keeps copies idempotent.
func AssetFileName(sourcePath string) string {
	base := SanitizeFileName(filepath.Base(sourcePath))
	if base == "" || base == "." {
		return ""
	}
	ext := filepath.Ext(base)
	stem := strings.Join(strings.Fields(strings.TrimSuffix(base, ext)), "-")
	if stem == "" {
		return ""
	}
	return stem + strings.ToLower(ext)
}

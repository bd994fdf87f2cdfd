package textutil

import (
	"path/filepath"
	"strings"
)

// DefaultNoiseWords are dropped from asset file names before matching.
var DefaultNoiseWords = []string{
	"logo", "crest", "badge", "emblem",
	"gaa", "gfc", "fc", "club", "clg", "hc",
	"hurling", "camogie", "gaelic", "football",
}

// StripNoise turns an asset file name into a matching key: the extension is
// removed, separators become spaces, and noise words are dropped. The result
// is in loose token form and may be empty.
func StripNoise(fileName string, noise []string) string {
	base := filepath.Base(strings.TrimSpace(fileName))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	base = trimExtension(base)

	drop := make(map[string]struct{}, len(noise))
	for _, word := range noise {
		for _, tok := range Tokens(word) {
			drop[tok] = struct{}{}
		}
	}

	tokens := Tokens(base)
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, ok := drop[tok]; ok {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

var fileExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {}, ".webp": {},
	".bmp": {}, ".ico": {}, ".tif": {}, ".tiff": {}, ".avif": {}, ".heic": {},
}

// trimExtension drops a known image extension. "St.Marys" keeps its text
// because ".Marys" is not an extension.
func trimExtension(name string) string {
	ext := filepath.Ext(name)
	if _, ok := fileExtensions[strings.ToLower(ext)]; !ok {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// IsImageFile reports whether name carries a known image extension.
func IsImageFile(name string) bool {
	_, ok := fileExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

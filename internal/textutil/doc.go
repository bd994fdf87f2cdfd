// Package textutil canonicalizes club names, locations, and asset file names
// into comparable keys.
//
// Two key forms exist and every caller picks one explicitly:
//   - Tight: alphanumeric only, no separators. Used for substring and
//     windowed-overlap checks against short, noisy filename-derived strings.
//   - Loose: space-separated tokens with organisation suffixes and generic
//     qualifiers ("GAA", "Club", "Gaelic Football Club", ...) removed. Used
//     for composite-key grouping and list reconciliation.
//
// Both forms fold diacritics, repair common UTF-8/Windows-1252 mojibake, and
// are idempotent: applying a form to its own output returns the output
// unchanged. Empty input yields an empty key, which callers must treat as
// "no signal" rather than a wildcard.
package textutil

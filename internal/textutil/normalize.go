package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text and drops combining marks so "é" folds to "e".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// letterFolds covers letters that carry no combining mark under NFD.
var letterFolds = strings.NewReplacer(
	"ø", "o",
	"æ", "ae",
	"œ", "oe",
	"ß", "ss",
	"ł", "l",
	"đ", "d",
	"ð", "d",
	"þ", "th",
	"ı", "i",
)

// Fold repairs mojibake, lower-cases, and strips diacritics.
func Fold(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = repairMojibake(text)
	text = strings.ToLower(text)
	folded, _, err := transform.String(stripMarks, text)
	if err != nil {
		folded = text
	}
	return letterFolds.Replace(folded)
}

// repairMojibake undoes the classic "UTF-8 read as Windows-1252" corruption
// ("Ã©" for "é"). The repaired form is used only when it is valid UTF-8.
func repairMojibake(text string) string {
	if !strings.ContainsAny(text, "ÃÂâÅ") {
		return text
	}
	raw, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil || !utf8.ValidString(raw) || raw == text {
		return text
	}
	return raw
}

// Tight returns the alphanumeric-only key of text.
func Tight(text string) string {
	folded := Fold(text)
	var b strings.Builder
	b.Grow(len(folded))
	for i := 0; i < len(folded); i++ {
		c := folded[i]
		if isKeyByte(c) {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// apostrophes join the letters around them: "Patrick's" is one token.
var apostrophes = strings.NewReplacer("'", "", "\u2019", "", "`", "")

// Tokens splits text into folded alphanumeric tokens.
func Tokens(text string) []string {
	return strings.FieldsFunc(apostrophes.Replace(Fold(text)), func(r rune) bool {
		return r > unicode.MaxASCII || !isKeyByte(byte(r))
	})
}

// Plain returns the folded tokens of text joined by single spaces, without
// removing any words. It is the key used for exact-name lookups.
func Plain(text string) string {
	return strings.Join(Tokens(text), " ")
}

// Loose returns the space-separated key of text with organisation suffixes
// and generic qualifiers removed. A name made only of qualifiers keeps its
// unstripped tokens so it still carries a signal.
func Loose(text string) string {
	tokens := Tokens(text)
	if len(tokens) == 0 {
		return ""
	}
	stripped := stripQualifiers(tokens)
	if len(stripped) == 0 {
		return strings.Join(tokens, " ")
	}
	return strings.Join(stripped, " ")
}

func isKeyByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// trailingSuffixes are single tokens dropped from the end of a name.
var trailingSuffixes = map[string]struct{}{
	"club": {},
	"gaa":  {},
	"fc":   {},
	"gfc":  {},
	"clg":  {},
	"hc":   {},
	"lgfa": {},
}

// qualifierPhrases are generic multi-word tails, longest first.
var qualifierPhrases = [][]string{
	{"ladies", "gaelic", "football", "club"},
	{"hurling", "and", "camogie", "club"},
	{"gaelic", "athletic", "association"},
	{"gaelic", "football", "club"},
	{"gaelic", "athletic", "club"},
	{"gaelic", "games", "club"},
	{"hurling", "camogie", "club"},
	{"gaelic", "football"},
	{"gaelic", "club"},
	{"hurling", "club"},
	{"camogie", "club"},
}

func stripQualifiers(tokens []string) []string {
	out := append([]string(nil), tokens...)
	for {
		before := len(out)
		if len(out) > 0 && out[0] == "clg" {
			out = out[1:]
		}
		out = trimPhrase(out)
		if n := len(out); n > 0 {
			if _, ok := trailingSuffixes[out[n-1]]; ok {
				out = out[:n-1]
			}
		}
		if len(out) == before {
			return out
		}
	}
}

func trimPhrase(tokens []string) []string {
	for _, phrase := range qualifierPhrases {
		if hasTokenSuffix(tokens, phrase) {
			return tokens[:len(tokens)-len(phrase)]
		}
	}
	return tokens
}

func hasTokenSuffix(tokens, suffix []string) bool {
	if len(suffix) > len(tokens) {
		return false
	}
	offset := len(tokens) - len(suffix)
	for i, word := range suffix {
		if tokens[offset+i] != word {
			return false
		}
	}
	return true
}

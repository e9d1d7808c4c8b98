package counting

import "unicode"

// Character weights for the fallback estimator. CJK and Hangul scripts
// tokenize denser than Latin text.
const (
	wideCharsPerToken  = 2.5
	asciiCharsPerToken = 4.0
)

// Estimate returns a deterministic character-weighted token estimate:
// CJK/Hangul-range runes count ~2.5 chars per token, everything else ~4.
func Estimate(content string) int {
	if content == "" {
		return 0
	}

	wide := 0
	narrow := 0
	for _, r := range content {
		if isWideRune(r) {
			wide++
		} else {
			narrow++
		}
	}

	tokens := float64(wide)/wideCharsPerToken + float64(narrow)/asciiCharsPerToken
	n := int(tokens + 0.5)
	if n == 0 {
		n = 1
	}
	return n
}

// isWideRune reports whether r falls in a CJK or Hangul range.
func isWideRune(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hangul, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r)
}

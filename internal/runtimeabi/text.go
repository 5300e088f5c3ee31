package runtimeabi

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// OtterIsValidUTF8 validates s is well-formed UTF-8 (spec 6.3's
// otter_is_valid_utf8/otter_validate_utf8). utf8.ValidString already
// does exactly this check with no further normalization, and is
// sufficient here since the caller only needs a yes/no answer, not a
// repaired string — see DESIGN.md for why the stdlib covers this case
// without reaching for golang.org/x/text.
func OtterIsValidUTF8(s string) bool {
	return utf8.ValidString(s)
}

// OtterValidateUTF8 is the ABI's other spelling of the same check.
func OtterValidateUTF8(s string) bool {
	return OtterIsValidUTF8(s)
}

// OtterNormalizeText returns a valid-UTF-8 copy of s: every ill-formed
// byte sequence is rewritten to U+FFFD, then the result is folded to
// Unicode Normalization Form C, grounded on the teacher's own
// doc-commented Unicode handling in internal/lexer/lexer.go (rune-
// counted columns over the decoded text, never raw bytes) and on
// spec §4's ambient UTF-8 normalization requirement.
func OtterNormalizeText(s string) string {
	if utf8.ValidString(s) {
		return norm.NFC.String(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				b.WriteRune(utf8.RuneError)
				continue
			}
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

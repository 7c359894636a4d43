package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const apostrophes = "'’‘ʻʼ`"

// Make turns a patient name into a file-name-safe token. Letters of any
// script survive without their accents; other runs become a single dash.
func Make(input string) string {
	var b strings.Builder
	dash := false
	for _, r := range norm.NFD.String(strings.ToLower(strings.TrimSpace(input))) {
		switch {
		case unicode.Is(unicode.Mn, r), strings.ContainsRune(apostrophes, r):
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	if b.Len() == 0 {
		return "patient"
	}
	return norm.NFC.String(b.String())
}

package termboard

import "github.com/unilibs/uniwidth"

// runeWidth returns the display width the executor assigns a code point:
// 2 for wide characters (CJK, emoji), 1 for normal, 0 for combining
// marks and other zero-width scalars.
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

func isWideRune(r rune) bool {
	return uniwidth.RuneWidth(r) == 2
}

// StringWidth returns the total display width of s.
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}

package navindex

import "strings"

const upperHex = "0123456789ABCDEF"

// QuotePath percent-encodes every byte outside A-Z a-z 0-9 and "_.-~/".
// Spaces become %20, so "01 - Intro.md" links as "01%20-%20Intro.md".
func QuotePath(value string) string {
	var b strings.Builder
	b.Grow(len(value) * 3)
	for i := 0; i < len(value); i++ {
		c := value[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_' || c == '.' || c == '-' || c == '~' || c == '/':
		return true
	default:
		return false
	}
}

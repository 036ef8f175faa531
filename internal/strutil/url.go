package strutil

import (
	"strings"
)

// URLDecode decodes an application/x-www-form-urlencoded string: percent-encoded octets
// are unescaped and '+' becomes a space. The second return value tells whether the
// string was properly formed.
func URLDecode(str string) (string, bool) {
	if strings.IndexByte(str, '%') == -1 && strings.IndexByte(str, '+') == -1 {
		return str, true
	}

	var b strings.Builder
	b.Grow(len(str))

	for i := 0; i < len(str); i++ {
		switch c := str[i]; c {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 >= len(str) {
				return "", false
			}

			x, y := halfbyte(str[i+1]), halfbyte(str[i+2])
			if x|y == 0xFF {
				return "", false
			}

			b.WriteByte(x<<4 | y)
			i += 2
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), true
}

func halfbyte(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0xFF
	}
}

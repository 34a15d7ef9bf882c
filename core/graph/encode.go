package graph

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// writer emits JSON in the layout the execution engine expects: ", " between
// items, ": " after keys, control characters, DEL and every non-ASCII rune
// escaped as \uXXXX.
//
// encoding/json cannot produce this: it compacts Marshaler output, emits raw
// UTF-8 and HTML-escapes <, > and &.
type writer struct {
	strings.Builder
}

func (w *writer) key(k string) {
	w.str(k)
	w.WriteString(": ")
}

func (w *writer) num(n int64) {
	w.WriteString(strconv.FormatInt(n, 10))
}

func (w *writer) str(s string) {
	w.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				w.WriteString(`\"`)
			case '\\':
				w.WriteString(`\\`)
			case '\n':
				w.WriteString(`\n`)
			case '\r':
				w.WriteString(`\r`)
			case '\t':
				w.WriteString(`\t`)
			case '\b':
				w.WriteString(`\b`)
			case '\f':
				w.WriteString(`\f`)
			default:
				if c < 0x20 || c == 0x7f {
					w.u16(uint16(c))
				} else {
					w.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r > 0xFFFF {
			r -= 0x10000
			w.u16(uint16(0xD800 + (r>>10)&0x3FF))
			w.u16(uint16(0xDC00 + r&0x3FF))
			continue
		}
		// utf8.RuneError for invalid bytes lands here as �
		w.u16(uint16(r))
	}
	w.WriteByte('"')
}

func (w *writer) u16(v uint16) {
	w.WriteString(`\u`)
	w.WriteByte(hexDigits[v>>12&0xF])
	w.WriteByte(hexDigits[v>>8&0xF])
	w.WriteByte(hexDigits[v>>4&0xF])
	w.WriteByte(hexDigits[v&0xF])
}

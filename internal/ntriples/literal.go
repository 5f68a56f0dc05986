package ntriples

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Normalize turns a raw object into its plain value. URIs pass through
// unchanged. Quoted literals lose their datatype annotation and one layer
// of quotes, and escape sequences are decoded.
func Normalize(object string) (string, error) {
	switch {
	case strings.HasPrefix(object, "<") && strings.HasSuffix(object, ">"):
		return object, nil
	case strings.HasPrefix(object, "_:"):
		return "", &UnsupportedLiteralFormError{Object: object, Form: "blank node"}
	case !strings.HasPrefix(object, `"`):
		return "", &UnsupportedLiteralFormError{Object: object, Form: "bare token"}
	}

	q := closingQuote(object)
	if q < 0 {
		return "", &UnsupportedLiteralFormError{Object: object, Form: "unterminated literal"}
	}
	rest := object[q+1:]
	switch {
	case rest == "":
	case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">"):
	case strings.HasPrefix(rest, "@"):
		return "", &UnsupportedLiteralFormError{Object: object, Form: "language tag " + rest}
	default:
		return "", &UnsupportedLiteralFormError{Object: object, Form: "trailing text"}
	}
	return unescape(object[1:q]), nil
}

// unescape decodes N-Triples string escapes. Unknown escapes are kept
// verbatim.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case '"', '\'', '\\':
			b.WriteByte(s[i])
		case 'u', 'U':
			width := 4
			if s[i] == 'U' {
				width = 8
			}
			if r, ok := hexRune(s, i+1, width); ok {
				b.WriteRune(r)
				i += width
			} else {
				b.WriteByte('\\')
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func hexRune(s string, start, width int) (rune, bool) {
	if start+width > len(s) {
		return 0, false
	}
	n, err := strconv.ParseUint(s[start:start+width], 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		return 0, false
	}
	return rune(n), true
}

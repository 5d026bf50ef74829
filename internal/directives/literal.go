package directives

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// isStringLiteral reports whether tok is a (raw) string literal token
func isStringLiteral(tok string) bool {
	return strings.HasPrefix(tok, `"`) || strings.HasPrefix(tok, `r"`) || strings.HasPrefix(tok, `r#`)
}

// Unquote returns the contents of a Rust string or raw string literal
func Unquote(lit string) (string, bool) {
	if strings.HasPrefix(lit, "r") {
		body := strings.TrimPrefix(lit, "r")
		hashes := len(body) - len(strings.TrimLeft(body, "#"))
		fence := strings.Repeat("#", hashes)
		body = strings.TrimPrefix(body, fence)
		if !strings.HasPrefix(body, `"`) || !strings.HasSuffix(body, `"`+fence) || len(body) < 2+hashes {
			return "", false
		}
		return body[1 : len(body)-1-hashes], true
	}

	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", false
	}

	body := lit[1 : len(lit)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\', '"', '\'':
			b.WriteByte(body[i])
		case 'x':
			if i+2 >= len(body) {
				return "", false
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", false
			}
			b.WriteByte(byte(v))
			i += 2
		case 'u':
			end := strings.IndexByte(body[i:], '}')
			if end < 0 || i+1 >= len(body) || body[i+1] != '{' {
				return "", false
			}
			v, err := strconv.ParseUint(strings.ReplaceAll(body[i+2:i+end], "_", ""), 16, 32)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(v))
			i += end
		case '\n':
			// line continuation skips the newline and leading whitespace
			for i+1 < len(body) && strings.ContainsRune(" \t\r\n", rune(body[i+1])) {
				i++
			}
		default:
			return "", false
		}
	}
	return b.String(), true
}

// Quote renders s as a Rust string literal
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		case utf8.RuneError:
			b.WriteString(`\u{fffd}`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\u{` + strconv.FormatInt(int64(r), 16) + `}`)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

package widget

import (
	"fmt"
	"strconv"
	"strings"
)

// parseLiteral reads Python literal syntax: quoted strings in either quote
// style, numbers, True/False/None, lists, tuples and dicts. It is the
// permissive second attempt after JSON, so "['a', 'b']" decodes to a list.
func parseLiteral(s string) (interface{}, error) {
	p := &literalParser{src: s}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected trailing input")
	}
	return v, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *literalParser) peek() byte {
	return p.src[p.pos]
}

func (p *literalParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("literal offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *literalParser) skipSpace() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) value() (interface{}, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}

	switch c := p.peek(); {
	case c == '[':
		p.pos++
		items, _, err := p.sequence(']')
		return items, err
	case c == '(':
		p.pos++
		items, trailingComma, err := p.sequence(')')
		if err != nil {
			return nil, err
		}
		// "(x)" is a parenthesized value, "(x,)" a one-element tuple
		if len(items) == 1 && !trailingComma {
			return items[0], nil
		}
		return items, nil
	case c == '{':
		p.pos++
		return p.dict()
	case c == '\'' || c == '"':
		return p.stringLiteral()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	case isNameStart(c):
		return p.name()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

// sequence reads comma-separated values up to closer. The second result
// reports whether the last element was followed by a comma.
func (p *literalParser) sequence(closer byte) ([]interface{}, bool, error) {
	items := make([]interface{}, 0)
	trailingComma := false
	for {
		p.skipSpace()
		if p.eof() {
			return nil, false, p.errorf("unterminated sequence")
		}
		if p.peek() == closer {
			p.pos++
			return items, trailingComma, nil
		}

		v, err := p.value()
		if err != nil {
			return nil, false, err
		}
		items = append(items, v)

		p.skipSpace()
		if p.eof() {
			return nil, false, p.errorf("unterminated sequence")
		}
		switch p.peek() {
		case ',':
			p.pos++
			trailingComma = true
		case closer:
			trailingComma = false
		default:
			return nil, false, p.errorf("expected ',' or %q", closer)
		}
	}
}

func (p *literalParser) dict() (map[string]interface{}, error) {
	out := make(map[string]interface{})
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated dict")
		}
		if p.peek() == '}' {
			p.pos++
			return out, nil
		}

		key, err := p.value()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eof() || p.peek() != ':' {
			return nil, p.errorf("expected ':' after dict key")
		}
		p.pos++

		val, err := p.value()
		if err != nil {
			return nil, err
		}
		out[format(key)] = val

		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unterminated dict")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
		default:
			return nil, p.errorf("expected ',' or '}'")
		}
	}
}

// stringLiteral reads one or more adjacent string literals and concatenates them
func (p *literalParser) stringLiteral() (string, error) {
	var sb strings.Builder
	for {
		s, err := p.quoted()
		if err != nil {
			return "", err
		}
		sb.WriteString(s)

		p.skipSpace()
		if p.eof() || (p.peek() != '\'' && p.peek() != '"') {
			return sb.String(), nil
		}
	}
}

func (p *literalParser) quoted() (string, error) {
	quote := p.peek()
	delim := string(quote)
	if strings.HasPrefix(p.src[p.pos:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}
	p.pos += len(delim)

	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string")
		}
		if strings.HasPrefix(p.src[p.pos:], delim) {
			p.pos += len(delim)
			return sb.String(), nil
		}

		c := p.peek()
		if c == '\n' && len(delim) == 1 {
			return "", p.errorf("newline in string")
		}
		if c != '\\' {
			sb.WriteByte(c)
			p.pos++
			continue
		}

		p.pos++
		if p.eof() {
			return "", p.errorf("unterminated escape")
		}
		esc := p.peek()
		p.pos++
		switch esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case '\\', '\'', '"':
			sb.WriteByte(esc)
		case '\n':
			// line continuation
		default:
			sb.WriteByte('\\')
			sb.WriteByte(esc)
		}
	}
}

func (p *literalParser) number() (interface{}, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	for !p.eof() {
		c := p.peek()
		if (c >= '0' && c <= '9') || c == '.' || c == '_' || c == 'e' || c == 'E' ||
			((c == '-' || c == '+') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')) {
			p.pos++
			continue
		}
		break
	}

	text := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	if i, err := strconv.Atoi(text); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf("invalid number %q", text)
	}
	return f, nil
}

func (p *literalParser) name() (interface{}, error) {
	start := p.pos
	for !p.eof() && (isNameStart(p.peek()) || (p.peek() >= '0' && p.peek() <= '9')) {
		p.pos++
	}

	switch word := p.src[start:p.pos]; word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	default:
		return nil, fmt.Errorf("literal offset %d: name %q is not a literal", start, word)
	}
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

package envelope

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// serializeJSONObject hand-builds a flat JSON object text from m, in
// ascending key order, escaping string values per spec.md §4.3. This
// mirrors the teacher's hand-written, field-by-field wire conversion
// style rather than reflection-driven marshaling.
func serializeJSONObject(m map[string]string) string {
	keys := sortedKeys(m)
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(escapeJSONExtra(k))
		b.WriteString(`":"`)
		b.WriteString(escapeJSONExtra(m[k]))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

// jsonParser is a minimal hand-rolled parser for the flat JSON subset of
// spec.md §4.3: "only a flat object of string values (parsed numbers and
// booleans are also accepted and normalized); nested objects, arrays, and
// null are rejected".
type jsonParser struct {
	s   string
	pos int
}

func parseJSONObject(s string) (map[string]string, error) {
	p := &jsonParser{s: s}
	p.skipSpace()
	if !p.consume('{') {
		return nil, &ParseError{Message: "expected '{'"}
	}
	m := make(map[string]string)
	p.skipSpace()
	if p.consume('}') {
		return m, nil
	}
	for {
		p.skipSpace()
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		if _, dup := m[key]; dup {
			return nil, &ParseError{Key: key, Message: "duplicate key"}
		}
		p.skipSpace()
		if !p.consume(':') {
			return nil, &ParseError{Key: key, Message: "expected ':'"}
		}
		p.skipSpace()
		val, err := p.parseValue(key)
		if err != nil {
			return nil, err
		}
		m[key] = val
		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume('}') {
			break
		}
		return nil, &ParseError{Message: "expected ',' or '}'"}
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, &ParseError{Message: "trailing content after top-level object"}
	}
	return m, nil
}

func (p *jsonParser) skipSpace() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *jsonParser) consume(c byte) bool {
	if p.pos < len(p.s) && p.s[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *jsonParser) parseString() (string, error) {
	if p.pos >= len(p.s) || p.s[p.pos] != '"' {
		return "", &ParseError{Message: "expected string"}
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '\\' {
			p.pos += 2
			continue
		}
		if c == '"' {
			raw := p.s[start:p.pos]
			p.pos++
			return unescapeJSONExtra(raw)
		}
		_, size := utf8.DecodeRuneInString(p.s[p.pos:])
		p.pos += size
	}
	return "", &ParseError{Message: "unterminated string"}
}

func (p *jsonParser) parseValue(key string) (string, error) {
	if p.pos >= len(p.s) {
		return "", &ParseError{Key: key, Message: "unexpected end of input"}
	}
	switch p.s[p.pos] {
	case '"':
		return p.parseString()
	case '{':
		return "", &ParseError{Key: key, Message: "json nested values are not supported"}
	case '[':
		return "", &ParseError{Key: key, Message: "json nested values are not supported"}
	case 't':
		if strings.HasPrefix(p.s[p.pos:], "true") {
			p.pos += 4
			return "true", nil
		}
	case 'f':
		if strings.HasPrefix(p.s[p.pos:], "false") {
			p.pos += 5
			return "false", nil
		}
	case 'n':
		if strings.HasPrefix(p.s[p.pos:], "null") {
			return "", &ParseError{Key: key, Message: "json null values are not supported"}
		}
	}

	start := p.pos
	for p.pos < len(p.s) && isNumberByte(p.s[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", &ParseError{Key: key, Message: "unexpected value token"}
	}
	raw := p.s[start:p.pos]
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", &ParseError{Key: key, Message: "invalid number literal"}
	}
	return renderFloat(f), nil
}

func isNumberByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E':
		return true
	default:
		return false
	}
}

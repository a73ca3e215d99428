package envelope

import "strings"

// escapeKV backslash-escapes \n, \r, \\ (spec.md §4.3: "Strings in KV use
// backslash escapes for \n, \r, \\").
func escapeKV(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)
	return r.Replace(s)
}

// unescapeKV reverses escapeKV strictly: an unrecognized escape sequence
// is a parse error (spec.md §4.3: "Unescape is strict: unknown escape =
// parse error").
func unescapeKV(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", &ParseError{Message: "dangling escape at end of value"}
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			return "", &ParseError{Message: "unknown escape sequence \\" + string(s[i])}
		}
	}
	return b.String(), nil
}

// escapeJSONExtra additionally escapes '"' and '\t' on top of escapeKV's
// set (spec.md §4.3: "JSON additionally escapes \" and \t").
func escapeJSONExtra(s string) string {
	r := strings.NewReplacer(`"`, `\"`, "\t", `\t`)
	return r.Replace(escapeKV(s))
}

func unescapeJSONExtra(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", &ParseError{Message: "dangling escape at end of value"}
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 't':
			b.WriteByte('\t')
		default:
			return "", &ParseError{Message: "unknown escape sequence \\" + string(s[i])}
		}
	}
	return b.String(), nil
}

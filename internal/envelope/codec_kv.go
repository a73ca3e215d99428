package envelope

import (
	"strings"
)

// serializeKV renders m as newline-separated "key=value" lines in
// ascending key order, escaping values per escapeKV.
func serializeKV(m map[string]string) string {
	keys := sortedKeys(m)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+escapeKV(m[k]))
	}
	return strings.Join(lines, "\n")
}

// parseKV is the strict inverse of serializeKV: every non-blank line must
// contain '=', and a repeated key is a parse error.
func parseKV(payload string) (map[string]string, error) {
	m := make(map[string]string)
	for _, line := range strings.Split(payload, "\n") {
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			return nil, &ParseError{Message: "malformed line, missing '=': " + line}
		}
		key := line[:idx]
		val, err := unescapeKV(line[idx+1:])
		if err != nil {
			return nil, &ParseError{Key: key, Message: err.Error()}
		}
		if _, dup := m[key]; dup {
			return nil, &ParseError{Key: key, Message: "duplicate key"}
		}
		m[key] = val
	}
	return m, nil
}

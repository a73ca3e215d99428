package envelope

import "fmt"

// Format names a wire encoding for the flat envelope map (spec.md §4.3's
// format table: canonical names plus accepted aliases).
type Format string

const (
	FormatJSON Format = "ie_json_v1"
	FormatKV   Format = "ie_kv_v1"
)

var formatAliases = map[string]Format{
	"ie_json_v1": FormatJSON,
	"json":       FormatJSON,
	"ie_kv_v1":   FormatKV,
	"kv":         FormatKV,
	"keyvalue":   FormatKV,
}

// ResolveFormat normalizes a format name or alias to its canonical Format.
func ResolveFormat(name string) (Format, error) {
	f, ok := formatAliases[name]
	if !ok {
		return "", fmt.Errorf("envelope: unknown format %q", name)
	}
	return f, nil
}

// IoEnvelopeParseResult is the result of Parse (spec.md §4.3: "produce
// IoEnvelopeParseResult {ok, error, envelope}").
type IoEnvelopeParseResult struct {
	OK       bool
	Error    error
	Envelope Envelope
}

// Serialize renders e in the named format.
func Serialize(format string, e Envelope) (string, error) {
	f, err := ResolveFormat(format)
	if err != nil {
		return "", err
	}
	m := e.Flatten()
	switch f {
	case FormatJSON:
		return serializeJSON(m), nil
	case FormatKV:
		return serializeKV(m), nil
	default:
		return "", fmt.Errorf("envelope: unsupported format %q", format)
	}
}

// Parse decodes payload in the named format into an Envelope.
func Parse(format string, payload string) IoEnvelopeParseResult {
	f, err := ResolveFormat(format)
	if err != nil {
		return IoEnvelopeParseResult{OK: false, Error: err}
	}

	var m map[string]string
	switch f {
	case FormatJSON:
		m, err = parseJSON(payload)
	case FormatKV:
		m, err = parseKV(payload)
	default:
		err = fmt.Errorf("envelope: unsupported format %q", format)
	}
	if err != nil {
		return IoEnvelopeParseResult{OK: false, Error: err}
	}

	e, err := Inflate(m)
	if err != nil {
		return IoEnvelopeParseResult{OK: false, Error: err}
	}
	if err := e.Validate(); err != nil {
		return IoEnvelopeParseResult{OK: false, Error: err}
	}
	return IoEnvelopeParseResult{OK: true, Envelope: e}
}

// Convert re-encodes payload from formatIn to formatOut:
// serialize(format_out, parse(format_in, payload)).
func Convert(formatIn, formatOut, payload string) (string, error) {
	res := Parse(formatIn, payload)
	if !res.OK {
		return "", res.Error
	}
	return Serialize(formatOut, res.Envelope)
}

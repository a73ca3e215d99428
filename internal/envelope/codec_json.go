package envelope

// serializeJSON and parseJSON delegate to the hand-rolled flat-object
// codec in jsonsubset.go, kept separate so the KV and JSON wire formats
// each own a single file pair (serialize/parse).
func serializeJSON(m map[string]string) string {
	return serializeJSONObject(m)
}

func parseJSON(payload string) (map[string]string, error) {
	return parseJSONObject(payload)
}

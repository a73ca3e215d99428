package federation

import (
	"sort"
	"strconv"
	"strings"
)

// ToFlatMap renders f's fixed key set (spec.md §6 "Federation frame JSON
// has fixed keys") as a flat string map, the same representation style
// internal/envelope uses for ExternalIoEnvelope.
func (f FederationEventFrame) ToFlatMap() map[string]string {
	return map[string]string{
		"schema_version":                        f.SchemaVersion,
		"interface_id":                           f.InterfaceID,
		"endpoint_id":                            f.EndpointID,
		"federate_id":                            f.FederateID,
		"federate_key_id":                        f.FederateKeyID,
		"federate_key_epoch":                     strconv.FormatUint(f.FederateKeyEpoch, 10),
		"federate_key_valid_until_timestamp_ms":   strconv.FormatUint(f.FederateKeyValidUntilTimestampMs, 10),
		"federate_attestation_tag":                f.FederateAttestationTag,
		"route_key":                               f.RouteKey,
		"route_sequence":                          strconv.FormatUint(f.RouteSequence, 10),
		"logical_tick":                            strconv.FormatUint(f.LogicalTick, 10),
		"event_timestamp_ms":                      strconv.FormatUint(f.EventTimestampMs, 10),
		"source_timestamp_ms":                     strconv.FormatUint(f.SourceTimestampMs, 10),
		"source_latency_ms":                       strconv.FormatUint(f.SourceLatencyMs, 10),
		"latency_budget_ms":                       strconv.FormatUint(f.LatencyBudgetMs, 10),
		"source_id":                               f.SourceID,
		"payload_format":                          f.PayloadFormat,
		"seed":                                    strconv.FormatInt(f.Seed, 10),
		"deterministic":                           strconv.FormatBool(f.Deterministic),
		"payload":                                 f.Payload,
	}
}

// ToJSON serializes f as a fixed-key flat JSON object with keys in
// ascending lexicographic order, matching the envelope codec's ordering
// rule (spec.md §4.4 "JSON serialization of a frame").
func (f FederationEventFrame) ToJSON() string {
	m := f.ToFlatMap()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(k)
		b.WriteString(`":`)
		if k == "deterministic" {
			b.WriteString(m[k])
			continue
		}
		if isFrameNumericKey(k) {
			b.WriteString(m[k])
			continue
		}
		b.WriteByte('"')
		b.WriteString(jsonEscape(m[k]))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

func isFrameNumericKey(k string) bool {
	switch k {
	case "federate_key_epoch", "federate_key_valid_until_timestamp_ms", "route_sequence",
		"logical_tick", "event_timestamp_ms", "source_timestamp_ms", "source_latency_ms",
		"latency_budget_ms", "seed":
		return true
	default:
		return false
	}
}

func jsonEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}

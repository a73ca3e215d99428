package federation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadConfig reads a federation bridge configuration from a
// newline-delimited key=value file with '#' comments, the same surface
// shape as internal/config's loader (spec.md §4.4 "Configuration").
// Endpoints are declared by listing their ids under
// "endpoints" (comma-separated) and then setting
// "endpoint.<id>.*" fields.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("federation: open %s: %w", path, err)
	}
	defer f.Close()
	return parseConfig(f)
}

func parseConfig(r io.Reader) (Config, error) {
	values := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return Config{}, fmt.Errorf("federation: malformed line %q: missing '='", line)
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return Config{}, err
	}

	str := func(key string) string { return values[key] }
	u64 := func(key string) (uint64, error) {
		v, ok := values[key]
		if !ok || v == "" {
			return 0, nil
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("federation: %s: %w", key, err)
		}
		return n, nil
	}
	boolean := func(key string) bool {
		switch strings.ToLower(values[key]) {
		case "true", "1", "yes":
			return true
		default:
			return false
		}
	}
	list := func(key string) []string {
		v := values[key]
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	cfg := Config{
		FederateID:                 str("federate_id"),
		RouteDomain:                str("route_domain"),
		OutputFormatName:           str("output_format_name"),
		RequireDeterministic:       boolean("require_deterministic"),
		RequireSourceTimestamp:     boolean("require_source_timestamp"),
		AllowedSourceIDs:           list("allowed_source_ids"),
		FederateKeyID:              str("federate_key_id"),
		RequireFederateAttestation: boolean("require_federate_attestation"),
		FederateAttestationTag:     str("federate_attestation_tag"),
	}
	cfg.RequireMonotonicSourceTimestamp = boolean("require_monotonic_source_timestamp")

	var err error
	if cfg.StartLogicalTick, err = u64("start_logical_tick"); err != nil {
		return Config{}, err
	}
	if cfg.TickStep, err = u64("tick_step"); err != nil {
		return Config{}, err
	}
	if cfg.StartTimestampMs, err = u64("start_timestamp_ms"); err != nil {
		return Config{}, err
	}
	if cfg.TickDurationMs, err = u64("tick_duration_ms"); err != nil {
		return Config{}, err
	}
	if cfg.MaxLatencyBudgetMs, err = u64("max_latency_budget_ms"); err != nil {
		return Config{}, err
	}
	if cfg.MaxFutureSkewMs, err = u64("max_future_skew_ms"); err != nil {
		return Config{}, err
	}
	if cfg.FederateKeyEpoch, err = u64("federate_key_epoch"); err != nil {
		return Config{}, err
	}
	if cfg.FederateKeyValidFromTimestampMs, err = u64("federate_key_valid_from_timestamp_ms"); err != nil {
		return Config{}, err
	}
	if cfg.FederateKeyValidUntilTimestampMs, err = u64("federate_key_valid_until_timestamp_ms"); err != nil {
		return Config{}, err
	}

	for _, id := range list("endpoints") {
		prefix := "endpoint." + id + "."
		ep := Endpoint{
			EndpointID:         id,
			OutputFormatName:   str(prefix + "output_format_name"),
			Enabled:            boolean(prefix + "enabled"),
			RequireAttestation: boolean(prefix + "require_attestation"),
			TrustedKeyIDs:      list(prefix + "trusted_key_ids"),
		}
		cfg.Endpoints = append(cfg.Endpoints, ep)
	}

	return cfg, nil
}

package envelope

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// renderFloat renders f at max_digits10 precision (spec.md §4.3:
// "Numeric doubles are rendered with max_digits10 precision (17
// significant digits)") — enough decimal digits to round-trip any
// float64 exactly.
func renderFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 17, 64)
}

func renderBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func renderInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// Flatten converts e into the flat string-keyed map that is the wire
// representation shared by every codec (spec.md §9 "Flat-map envelope").
func (e Envelope) Flatten() map[string]string {
	m := make(map[string]string, 64)

	m["schema_version"] = e.SchemaVersion
	m["interface_id"] = e.InterfaceID

	m["metadata.platform_profile"] = e.Metadata.PlatformProfile
	m["metadata.adapter_id"] = e.Metadata.AdapterID
	m["metadata.adapter_version"] = e.Metadata.AdapterVersion
	m["metadata.ui_surface"] = e.Metadata.UISurface
	m["metadata.seed"] = renderInt(e.Metadata.Seed)
	m["metadata.deterministic"] = renderBool(e.Metadata.Deterministic)

	m["mode.active"] = e.Mode.Active
	m["mode.confidence"] = renderFloat(e.Mode.Confidence)
	m["mode.decision_reason"] = e.Mode.DecisionReason
	m["mode.denial_reason"] = e.Mode.DenialReason
	m["mode.ladder_status"] = e.Mode.LadderStatus
	m["mode.contributors"] = strings.Join(e.Mode.Contributors, ",")

	m["sensor.count"] = renderInt(int64(len(e.Sensors)))
	for i, s := range e.Sensors {
		p := fmt.Sprintf("sensor.%d.", i)
		m[p+"id"] = s.ID
		m[p+"available"] = renderBool(s.Available)
		m[p+"healthy"] = renderBool(s.Healthy)
		m[p+"has_measurement"] = renderBool(s.HasMeasurement)
		m[p+"freshness_seconds"] = renderFloat(s.FreshnessSeconds)
		m[p+"confidence"] = renderFloat(s.Confidence)
		m[p+"last_error"] = s.LastError
	}

	fv := e.FrontView
	m["front_view.active_mode"] = fv.ActiveMode
	m["front_view.view_state"] = fv.ViewState
	m["front_view.frame_id"] = fv.FrameID
	m["front_view.source_id"] = fv.SourceID
	m["front_view.sensor_type"] = fv.SensorType
	m["front_view.sequence"] = renderInt(fv.Sequence)
	m["front_view.timestamp_ms"] = renderInt(fv.TimestampMs)
	m["front_view.frame_age_ms"] = renderInt(fv.FrameAgeMs)
	m["front_view.acquisition_latency_ms"] = renderInt(fv.AcquisitionLatencyMs)
	m["front_view.processing_latency_ms"] = renderInt(fv.ProcessingLatencyMs)
	m["front_view.render_latency_ms"] = renderInt(fv.RenderLatencyMs)
	m["front_view.latency_ms"] = renderInt(fv.LatencyMs)
	m["front_view.dropped_frames"] = renderInt(fv.DroppedFrames)
	m["front_view.drop_reason"] = fv.DropReason
	m["front_view.spoof_active"] = renderBool(fv.SpoofActive)
	m["front_view.confidence"] = renderFloat(fv.Confidence)
	m["front_view.provenance"] = fv.Provenance
	m["front_view.auth_status"] = fv.AuthStatus
	m["front_view.stream_id"] = fv.StreamID
	m["front_view.stream_index"] = renderInt(int64(fv.StreamIndex))
	m["front_view.stream_count"] = renderInt(int64(fv.StreamCount))
	m["front_view.max_concurrent_views"] = renderInt(int64(fv.MaxConcurrentViews))
	m["front_view.stabilization_mode"] = fv.StabilizationMode
	m["front_view.stabilization_active"] = renderBool(fv.StabilizationActive)
	m["front_view.stabilization_error_deg"] = renderFloat(fv.StabilizationErrorDeg)
	m["front_view.gimbal_yaw_deg"] = renderFloat(fv.GimbalYawDeg)
	m["front_view.gimbal_pitch_deg"] = renderFloat(fv.GimbalPitchDeg)
	m["front_view.gimbal_yaw_rate_deg_s"] = renderFloat(fv.GimbalYawRateDegS)
	m["front_view.gimbal_pitch_rate_deg_s"] = renderFloat(fv.GimbalPitchRateDegS)

	m["front_view_stream.count"] = renderInt(int64(len(e.FrontViewStreams)))
	for i, s := range e.FrontViewStreams {
		p := fmt.Sprintf("front_view_stream.%d.", i)
		m[p+"stream_id"] = s.StreamID
		m[p+"active_mode"] = s.ActiveMode
		m[p+"frame_id"] = s.FrameID
		m[p+"sensor_type"] = s.SensorType
		m[p+"sequence"] = renderInt(s.Sequence)
		m[p+"timestamp_ms"] = renderInt(s.TimestampMs)
		m[p+"frame_age_ms"] = renderInt(s.FrameAgeMs)
		m[p+"latency_ms"] = renderInt(s.LatencyMs)
		m[p+"confidence"] = renderFloat(s.Confidence)
		m[p+"stabilization_mode"] = s.StabilizationMode
		m[p+"stabilization_active"] = renderBool(s.StabilizationActive)
	}

	m["status.disqualified_sources"] = e.Status.DisqualifiedSources
	m["status.lockout_status"] = e.Status.LockoutStatus
	m["status.auth_status"] = e.Status.AuthStatus
	m["status.provenance_status"] = e.Status.ProvenanceStatus
	m["status.logging_status"] = e.Status.LoggingStatus
	m["status.adapter_status"] = e.Status.AdapterStatus
	m["status.adapter_reason"] = e.Status.AdapterReason
	m["status.adapter_fields"] = e.Status.AdapterFields

	return m
}

// sortedKeys returns m's keys in ascending lexicographic order (spec.md
// §4.3 "Determinism: output keys are emitted in ascending lexicographic
// order").
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package envelope

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError is a strict-parse failure naming the offending key (spec.md
// §4.3 "Missing required leaf is an error naming the key").
type ParseError struct {
	Key     string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("envelope: %s: %s", e.Key, e.Message)
}

type inflater struct {
	m map[string]string
}

func (in *inflater) str(key string) (string, error) {
	v, ok := in.m[key]
	if !ok {
		return "", &ParseError{Key: key, Message: "missing required leaf"}
	}
	return v, nil
}

func (in *inflater) boolean(key string) (bool, error) {
	v, err := in.str(key)
	if err != nil {
		return false, err
	}
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &ParseError{Key: key, Message: "not a boolean"}
	}
}

func (in *inflater) float(key string) (float64, error) {
	v, err := in.str(key)
	if err != nil {
		return 0, err
	}
	f, perr := strconv.ParseFloat(v, 64)
	if perr != nil {
		return 0, &ParseError{Key: key, Message: "not a number"}
	}
	return f, nil
}

func (in *inflater) int64(key string) (int64, error) {
	v, err := in.str(key)
	if err != nil {
		return 0, err
	}
	n, perr := strconv.ParseInt(v, 10, 64)
	if perr != nil {
		return 0, &ParseError{Key: key, Message: "not an integer"}
	}
	return n, nil
}

func (in *inflater) int(key string) (int, error) {
	n, err := in.int64(key)
	return int(n), err
}

func (in *inflater) list(key string) ([]string, error) {
	v, err := in.str(key)
	if err != nil {
		return nil, err
	}
	if v == "" {
		return nil, nil
	}
	return strings.Split(v, ","), nil
}

// Inflate parses a flat key-value map produced by Flatten back into an
// Envelope (spec.md §4.3 round-trip law: parse(serialize(f,e)) == e).
func Inflate(m map[string]string) (Envelope, error) {
	in := &inflater{m: m}
	var e Envelope
	var err error

	if e.SchemaVersion, err = in.str("schema_version"); err != nil {
		return Envelope{}, err
	}
	if e.InterfaceID, err = in.str("interface_id"); err != nil {
		return Envelope{}, err
	}

	if e.Metadata.PlatformProfile, err = in.str("metadata.platform_profile"); err != nil {
		return Envelope{}, err
	}
	if e.Metadata.AdapterID, err = in.str("metadata.adapter_id"); err != nil {
		return Envelope{}, err
	}
	if e.Metadata.AdapterVersion, err = in.str("metadata.adapter_version"); err != nil {
		return Envelope{}, err
	}
	if e.Metadata.UISurface, err = in.str("metadata.ui_surface"); err != nil {
		return Envelope{}, err
	}
	if e.Metadata.Seed, err = in.int64("metadata.seed"); err != nil {
		return Envelope{}, err
	}
	if e.Metadata.Deterministic, err = in.boolean("metadata.deterministic"); err != nil {
		return Envelope{}, err
	}

	if e.Mode.Active, err = in.str("mode.active"); err != nil {
		return Envelope{}, err
	}
	if e.Mode.Confidence, err = in.float("mode.confidence"); err != nil {
		return Envelope{}, err
	}
	if e.Mode.DecisionReason, err = in.str("mode.decision_reason"); err != nil {
		return Envelope{}, err
	}
	if e.Mode.DenialReason, err = in.str("mode.denial_reason"); err != nil {
		return Envelope{}, err
	}
	if e.Mode.LadderStatus, err = in.str("mode.ladder_status"); err != nil {
		return Envelope{}, err
	}
	if e.Mode.Contributors, err = in.list("mode.contributors"); err != nil {
		return Envelope{}, err
	}

	count, err := in.int("sensor.count")
	if err != nil {
		return Envelope{}, err
	}
	e.Sensors = make([]SensorEntry, count)
	for i := 0; i < count; i++ {
		p := fmt.Sprintf("sensor.%d.", i)
		s := &e.Sensors[i]
		if s.ID, err = in.str(p + "id"); err != nil {
			return Envelope{}, err
		}
		if s.Available, err = in.boolean(p + "available"); err != nil {
			return Envelope{}, err
		}
		if s.Healthy, err = in.boolean(p + "healthy"); err != nil {
			return Envelope{}, err
		}
		if s.HasMeasurement, err = in.boolean(p + "has_measurement"); err != nil {
			return Envelope{}, err
		}
		if s.FreshnessSeconds, err = in.float(p + "freshness_seconds"); err != nil {
			return Envelope{}, err
		}
		if s.Confidence, err = in.float(p + "confidence"); err != nil {
			return Envelope{}, err
		}
		if s.LastError, err = in.str(p + "last_error"); err != nil {
			return Envelope{}, err
		}
	}

	if err = inflateFrontView(in, &e.FrontView); err != nil {
		return Envelope{}, err
	}

	streamCount, err := in.int("front_view_stream.count")
	if err != nil {
		return Envelope{}, err
	}
	e.FrontViewStreams = make([]FrontViewStream, streamCount)
	for i := 0; i < streamCount; i++ {
		p := fmt.Sprintf("front_view_stream.%d.", i)
		s := &e.FrontViewStreams[i]
		if s.StreamID, err = in.str(p + "stream_id"); err != nil {
			return Envelope{}, err
		}
		if s.ActiveMode, err = in.str(p + "active_mode"); err != nil {
			return Envelope{}, err
		}
		if s.FrameID, err = in.str(p + "frame_id"); err != nil {
			return Envelope{}, err
		}
		if s.SensorType, err = in.str(p + "sensor_type"); err != nil {
			return Envelope{}, err
		}
		if s.Sequence, err = in.int64(p + "sequence"); err != nil {
			return Envelope{}, err
		}
		if s.TimestampMs, err = in.int64(p + "timestamp_ms"); err != nil {
			return Envelope{}, err
		}
		if s.FrameAgeMs, err = in.int64(p + "frame_age_ms"); err != nil {
			return Envelope{}, err
		}
		if s.LatencyMs, err = in.int64(p + "latency_ms"); err != nil {
			return Envelope{}, err
		}
		if s.Confidence, err = in.float(p + "confidence"); err != nil {
			return Envelope{}, err
		}
		if s.StabilizationMode, err = in.str(p + "stabilization_mode"); err != nil {
			return Envelope{}, err
		}
		if s.StabilizationActive, err = in.boolean(p + "stabilization_active"); err != nil {
			return Envelope{}, err
		}
	}

	if e.Status.DisqualifiedSources, err = in.str("status.disqualified_sources"); err != nil {
		return Envelope{}, err
	}
	if e.Status.LockoutStatus, err = in.str("status.lockout_status"); err != nil {
		return Envelope{}, err
	}
	if e.Status.AuthStatus, err = in.str("status.auth_status"); err != nil {
		return Envelope{}, err
	}
	if e.Status.ProvenanceStatus, err = in.str("status.provenance_status"); err != nil {
		return Envelope{}, err
	}
	if e.Status.LoggingStatus, err = in.str("status.logging_status"); err != nil {
		return Envelope{}, err
	}
	if e.Status.AdapterStatus, err = in.str("status.adapter_status"); err != nil {
		return Envelope{}, err
	}
	if e.Status.AdapterReason, err = in.str("status.adapter_reason"); err != nil {
		return Envelope{}, err
	}
	if e.Status.AdapterFields, err = in.str("status.adapter_fields"); err != nil {
		return Envelope{}, err
	}

	return e, nil
}

func inflateFrontView(in *inflater, fv *FrontView) error {
	var err error
	if fv.ActiveMode, err = in.str("front_view.active_mode"); err != nil {
		return err
	}
	if fv.ViewState, err = in.str("front_view.view_state"); err != nil {
		return err
	}
	if fv.FrameID, err = in.str("front_view.frame_id"); err != nil {
		return err
	}
	if fv.SourceID, err = in.str("front_view.source_id"); err != nil {
		return err
	}
	if fv.SensorType, err = in.str("front_view.sensor_type"); err != nil {
		return err
	}
	if fv.Sequence, err = in.int64("front_view.sequence"); err != nil {
		return err
	}
	if fv.TimestampMs, err = in.int64("front_view.timestamp_ms"); err != nil {
		return err
	}
	if fv.FrameAgeMs, err = in.int64("front_view.frame_age_ms"); err != nil {
		return err
	}
	if fv.AcquisitionLatencyMs, err = in.int64("front_view.acquisition_latency_ms"); err != nil {
		return err
	}
	if fv.ProcessingLatencyMs, err = in.int64("front_view.processing_latency_ms"); err != nil {
		return err
	}
	if fv.RenderLatencyMs, err = in.int64("front_view.render_latency_ms"); err != nil {
		return err
	}
	if fv.LatencyMs, err = in.int64("front_view.latency_ms"); err != nil {
		return err
	}
	if fv.DroppedFrames, err = in.int64("front_view.dropped_frames"); err != nil {
		return err
	}
	if fv.DropReason, err = in.str("front_view.drop_reason"); err != nil {
		return err
	}
	if fv.SpoofActive, err = in.boolean("front_view.spoof_active"); err != nil {
		return err
	}
	if fv.Confidence, err = in.float("front_view.confidence"); err != nil {
		return err
	}
	if fv.Provenance, err = in.str("front_view.provenance"); err != nil {
		return err
	}
	if fv.AuthStatus, err = in.str("front_view.auth_status"); err != nil {
		return err
	}
	if fv.StreamID, err = in.str("front_view.stream_id"); err != nil {
		return err
	}
	if fv.StreamIndex, err = in.int("front_view.stream_index"); err != nil {
		return err
	}
	if fv.StreamCount, err = in.int("front_view.stream_count"); err != nil {
		return err
	}
	if fv.MaxConcurrentViews, err = in.int("front_view.max_concurrent_views"); err != nil {
		return err
	}
	if fv.StabilizationMode, err = in.str("front_view.stabilization_mode"); err != nil {
		return err
	}
	if fv.StabilizationActive, err = in.boolean("front_view.stabilization_active"); err != nil {
		return err
	}
	if fv.StabilizationErrorDeg, err = in.float("front_view.stabilization_error_deg"); err != nil {
		return err
	}
	if fv.GimbalYawDeg, err = in.float("front_view.gimbal_yaw_deg"); err != nil {
		return err
	}
	if fv.GimbalPitchDeg, err = in.float("front_view.gimbal_pitch_deg"); err != nil {
		return err
	}
	if fv.GimbalYawRateDegS, err = in.float("front_view.gimbal_yaw_rate_deg_s"); err != nil {
		return err
	}
	if fv.GimbalPitchRateDegS, err = in.float("front_view.gimbal_pitch_rate_deg_s"); err != nil {
		return err
	}
	return nil
}

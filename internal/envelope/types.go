// Package envelope implements the ExternalIoEnvelope flat-keyed record and
// its two bijective wire codecs (spec.md §4.3, §6 "ExternalIoEnvelope
// flat-key surface").
package envelope

// Metadata carries the envelope's identity and determinism tag.
type Metadata struct {
	PlatformProfile string
	AdapterID       string
	AdapterVersion  string
	UISurface       string
	Seed            int64
	Deterministic   bool
}

// ModeInfo mirrors mode.ModeDecision flattened for wire transport.
type ModeInfo struct {
	Active         string
	Confidence     float64
	DecisionReason string
	DenialReason   string
	LadderStatus   string
	Contributors   []string
}

// SensorEntry is one flattened sensor.Status.
type SensorEntry struct {
	ID               string
	Available        bool
	Healthy          bool
	HasMeasurement   bool
	FreshnessSeconds float64
	Confidence       float64
	LastError        string
}

// FrontView is the primary video/imaging pipeline's flattened state.
type FrontView struct {
	ActiveMode            string
	ViewState             string
	FrameID               string
	SourceID              string
	SensorType            string
	Sequence              int64
	TimestampMs           int64
	FrameAgeMs            int64
	AcquisitionLatencyMs  int64
	ProcessingLatencyMs   int64
	RenderLatencyMs       int64
	LatencyMs             int64
	DroppedFrames         int64
	DropReason            string
	SpoofActive           bool
	Confidence            float64
	Provenance            string
	AuthStatus            string
	StreamID              string
	StreamIndex           int
	StreamCount           int
	MaxConcurrentViews    int
	StabilizationMode     string
	StabilizationActive   bool
	StabilizationErrorDeg float64
	GimbalYawDeg          float64
	GimbalPitchDeg        float64
	GimbalYawRateDegS     float64
	GimbalPitchRateDegS   float64
}

// FrontViewStream is one auxiliary stream entry (spec.md §6
// "front_view_stream.<i>.*").
type FrontViewStream struct {
	StreamID            string
	ActiveMode          string
	FrameID             string
	SensorType          string
	Sequence            int64
	TimestampMs         int64
	FrameAgeMs          int64
	LatencyMs           int64
	Confidence          float64
	StabilizationMode   string
	StabilizationActive bool
}

// Status carries the closed-set status leaves of spec.md §6
// "status.{disqualified_sources, lockout_status, ...}". Each is a
// caller-formatted string (e.g. a comma-joined summary); the envelope
// codec does not further structure them.
type Status struct {
	DisqualifiedSources string
	LockoutStatus       string
	AuthStatus          string
	ProvenanceStatus    string
	LoggingStatus       string
	AdapterStatus       string
	AdapterReason       string
	AdapterFields       string
}

// Envelope is the in-memory ExternalIoEnvelope (spec.md §3, §6).
type Envelope struct {
	SchemaVersion    string
	InterfaceID      string
	Metadata         Metadata
	Mode             ModeInfo
	Sensors          []SensorEntry
	FrontView        FrontView
	FrontViewStreams []FrontViewStream
	Status           Status
}

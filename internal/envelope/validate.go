package envelope

import "fmt"

// Validate checks the envelope-level invariants of spec.md §3:
// "front_view.stream_index < front_view.stream_count when stream_count >
// 0; when front_view_streams is non-empty, its length equals
// stream_count".
func (e Envelope) Validate() error {
	fv := e.FrontView
	if fv.StreamCount > 0 && fv.StreamIndex >= fv.StreamCount {
		return fmt.Errorf("envelope: front_view.stream_index (%d) must be < front_view.stream_count (%d)", fv.StreamIndex, fv.StreamCount)
	}
	if len(e.FrontViewStreams) > 0 && len(e.FrontViewStreams) != fv.StreamCount {
		return fmt.Errorf("envelope: front_view_streams length (%d) must equal front_view.stream_count (%d)", len(e.FrontViewStreams), fv.StreamCount)
	}
	return nil
}

// Package audit implements the structured audit record emitter
// (spec.md §2 component K, §6 "Audit sink"). The core only calls a
// narrow Sink interface; the out-of-scope "append-only audit log sink"
// collaborator (spec.md §1) is whatever implements it.
package audit

// Sink is the interface the core calls to emit audit events (spec.md §6:
// "log(event_type: string, message: string, detail: string)").
type Sink interface {
	Log(eventType, message, detail string)
}

// NopSink discards every record. Useful as a default when no audit
// collaborator is configured.
type NopSink struct{}

func (NopSink) Log(string, string, string) {}

var _ Sink = NopSink{}

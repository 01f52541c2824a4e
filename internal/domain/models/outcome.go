package models

// OutcomeKind distinguishes fully-successful, partially-failed, and failed
// webhook processing. The transport layer still acknowledges the webhook with
// HTTP 200 in every case; the kind only shapes the response envelope.
type OutcomeKind int

const (
	OutcomeOk OutcomeKind = iota
	OutcomeDegraded
	OutcomeFailed
)

// Outcome is the typed result a service hands back to its handler.
type Outcome struct {
	Kind            OutcomeKind
	Message         string
	PartialFailures []string
	Fields          map[string]any
}

// Degrade records a sub-failure and downgrades an Ok outcome.
func (o *Outcome) Degrade(reason string) {
	o.PartialFailures = append(o.PartialFailures, reason)
	if o.Kind == OutcomeOk {
		o.Kind = OutcomeDegraded
	}
}

// Set attaches an envelope field to the outcome.
func (o *Outcome) Set(key string, value any) {
	if o.Fields == nil {
		o.Fields = make(map[string]any)
	}
	o.Fields[key] = value
}

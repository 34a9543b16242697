package transcript

import (
	"time"

	"property-concierge/internal/catalog"
)

// Origin identifies who produced a turn.
type Origin string

const (
	OriginSystem Origin = "system"
	OriginUser   Origin = "user"
)

// Kind identifies the payload carried by a turn.
type Kind string

const (
	KindMessage        Kind = "message"
	KindPropertyDetail Kind = "property_detail"
	KindForm           Kind = "form"
	KindOutcome        Kind = "outcome"
)

// Turn is one immutable entry in the transcript. Exactly one payload group
// is populated, selected by Kind.
type Turn struct {
	ID     string    `json:"id"`
	Origin Origin    `json:"origin"`
	Kind   Kind      `json:"kind"`
	At     time.Time `json:"at"`

	// KindMessage
	Message string `json:"message,omitempty"`

	// KindPropertyDetail; PropertyName also set for form and outcome turns
	// so the UI can render context without chasing references.
	PropertyName string            `json:"propertyName,omitempty"`
	Property     *catalog.Property `json:"property,omitempty"`

	// KindForm
	FormID   string `json:"formId,omitempty"`
	FormKind string `json:"formKind,omitempty"`

	// KindOutcome
	Outcome *Outcome `json:"outcome,omitempty"`
}

// Outcome reports the result of a dispatch attempt. Delivered means the
// request was transmitted, not that the endpoint accepted it.
type Outcome struct {
	Delivered     bool     `json:"delivered"`
	SubmissionID  string   `json:"submissionId"`
	Summary       string   `json:"summary"`
	Details       []string `json:"details,omitempty"`
	FallbackPhone string   `json:"fallbackPhone,omitempty"`
	FallbackEmail string   `json:"fallbackEmail,omitempty"`
}

package workflow

import (
	"property-concierge/internal/dispatch"
	"property-concierge/internal/transcript"
)

// OutcomeEvent is emitted after every dispatch attempt, once the outcome
// turn has been appended.
type OutcomeEvent struct {
	FormID       string
	SubmissionID string
	RequestType  dispatch.Type
	Outcome      dispatch.Outcome
	Turn         transcript.Turn
}

// OutcomeSubscriber receives OutcomeEvents in completion order.
type OutcomeSubscriber func(OutcomeEvent)

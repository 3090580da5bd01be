// actuator/actuator.go
package actuator

import (
	"context"
	"time"

	"github.com/doorward-io/doorward/model"
)

// Outcome is what the external actuator reports back for a dispatched
// command. The actuator may itself judge the opener out of area.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeOutOfArea Outcome = "out_of_area"
)

// Valid reports whether o is a known callback outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSuccess, OutcomeFailure, OutcomeOutOfArea:
		return true
	}
	return false
}

// Command is the payload handed to the external actuator. The actuator knows
// the request only by its event id and reports the outcome asynchronously
// through the callback endpoint.
type Command struct {
	EventID       string                `json:"event_id"`
	SubjectUserID string                `json:"subject_user_id"`
	RequestedAt   time.Time             `json:"requested_at"`
	Location      *model.LocationSample `json:"location,omitempty"`
}

// Client dispatches approved commands to the external actuator. Dispatch is
// fire-and-forget from the caller's point of view: once a command is on the
// wire the physical action cannot be cancelled.
type Client interface {
	Dispatch(ctx context.Context, cmd Command) error
}

// model/event.go
package model

import "time"

// EventState is the lifecycle state of an AccessEvent. Pending and
// ApprovedAwaitingActuator are the only non-terminal states; every other
// state is terminal and immutable once reached.
type EventState string

const (
	StatePending                  EventState = "pending"
	StateApprovedAwaitingActuator EventState = "approved_awaiting_actuator"
	StateCorrect                  EventState = "correct"
	StateOutOfArea                EventState = "out_of_area"
	StateDeniedBySchedule         EventState = "denied_by_schedule"
	StateActuatorTimeout          EventState = "actuator_timeout"
	StateActuatorError            EventState = "actuator_error"
	StateDuplicate                EventState = "duplicate"
	StateRejectedPreActuation     EventState = "rejected_pre_actuation"
)

// Terminal reports whether the state can never change again.
func (s EventState) Terminal() bool {
	return s != StatePending && s != StateApprovedAwaitingActuator
}

// Decision reason codes attached to AccessEvents and audit records.
const (
	ReasonDeviceNotAuthorized       = "device_not_authorized"
	ReasonSessionInvalid            = "session_invalid"
	ReasonRoleExempt                = "role_exempt"
	ReasonDayNotEnabled             = "day_not_enabled"
	ReasonOutsideGlobalSchedule     = "outside_global_schedule"
	ReasonWithinGlobalSchedule      = "within_global_schedule"
	ReasonOutsidePermissionWindow   = "outside_permission_window"
	ReasonPermissionOverride        = "permission_override"
	ReasonScheduleMisconfigured     = "schedule_misconfigured"
	ReasonLocationMissing           = "location_missing"
	ReasonOutsideAuthorizedArea     = "outside_authorized_area"
	ReasonWithinAuthorizedArea      = "within_authorized_area"
	ReasonDuplicateRequest          = "duplicate_request"
	ReasonActuatorUnreachable       = "actuator_unreachable"
	ReasonActuatorNoCallback        = "actuator_no_callback"
	ReasonActuatorReportedFailure   = "actuator_reported_failure"
	ReasonActuatorReportedOutOfArea = "actuator_reported_out_of_area"
	ReasonDoorOpened                = "door_opened"
)

// AccessEvent tracks a single door-open attempt from submission through
// resolution. Events are created by the correlator, mutated only through
// compare-and-swap state transitions, and retained after reaching a terminal
// state so late polls can still be answered.
type AccessEvent struct {
	EventID         string          `json:"event_id"`
	SubjectUserID   string          `json:"subject_user_id"`
	Role            Role            `json:"role"`
	CreatedAt       time.Time       `json:"created_at"`
	State           EventState      `json:"state"`
	Location        *LocationSample `json:"location,omitempty"`
	DecisionReasons []string        `json:"decision_reasons"`

	// DispatchedAt is set when the event enters ApprovedAwaitingActuator;
	// the callback wait bound is measured from it.
	DispatchedAt *time.Time `json:"dispatched_at,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// Terminal reports whether the event has reached its final state.
func (e AccessEvent) Terminal() bool {
	return e.State.Terminal()
}

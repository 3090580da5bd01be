package errors

import "errors"

var (
	ErrUnknownEvent       = errors.New("unknown access event")
	ErrEventStateConflict = errors.New("access event state conflict")
	ErrEventExists        = errors.New("access event already exists")
	ErrInvalidPrincipal   = errors.New("invalid principal")
	ErrInvalidOutcome     = errors.New("invalid actuator outcome")
	ErrInvalidRequestData = errors.New("invalid request data")

	ErrPermissionNotFound    = errors.New("special permission not found")
	ErrInvalidPermissionData = errors.New("invalid special permission data")
	ErrInvalidScheduleData   = errors.New("invalid schedule data")

	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbiddenSubject = errors.New("subject user not managed by caller")

	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInternalServer    = errors.New("internal server error")
)

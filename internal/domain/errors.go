package domain

// DomainError is a code-bearing domain failure. Codes are stable and are what
// handlers and external collaborators match on; messages are for humans.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Code + ": " + e.Message
}

var (
	ErrInvalidScheduleTime    = &DomainError{Code: "INVALID_SCHEDULE_TIME", Message: "scheduled time must be in the future"}
	ErrBranchNotAvailable     = &DomainError{Code: "BRANCH_NOT_AVAILABLE", Message: "branch not found or inactive"}
	ErrInvalidServices        = &DomainError{Code: "INVALID_SERVICES", Message: "one or more services are missing or inactive"}
	ErrOutsideHours           = &DomainError{Code: "OUTSIDE_OPERATING_HOURS", Message: "requested time is outside branch operating hours"}
	ErrInsufficientNotice     = &DomainError{Code: "INSUFFICIENT_NOTICE", Message: "booking does not meet the minimum advance notice"}
	ErrStaffNotAvailable      = &DomainError{Code: "STAFF_NOT_AVAILABLE", Message: "staff member is not available for the requested slot"}
	ErrInvalidAssignment      = &DomainError{Code: "INVALID_ASSIGNMENT", Message: "referenced staff or service record does not exist"}
	ErrInvalidStaff           = &DomainError{Code: "INVALID_STAFF_ASSIGNMENT", Message: "staff member cannot perform this service"}
	ErrBookingLocked          = &DomainError{Code: "BOOKING_LOCKED", Message: "services can only be changed while the booking is pending"}
	ErrNoServices             = &DomainError{Code: "NO_SERVICES", Message: "booking has no services"}
	ErrInvalidTransition      = &DomainError{Code: "INVALID_STATUS_TRANSITION", Message: "status transition is not allowed"}
	ErrInvalidDuration        = &DomainError{Code: "INVALID_DURATION", Message: "duration must be positive"}
	ErrInvalidDiscount        = &DomainError{Code: "INVALID_DISCOUNT", Message: "discount cannot exceed the service price"}
	ErrCurrencyMismatch       = &DomainError{Code: "CURRENCY_MISMATCH", Message: "money operands have different currencies"}
	ErrBookingNotFound        = &DomainError{Code: "BOOKING_NOT_FOUND", Message: "booking not found"}
	ErrRescheduleNotAllowed   = &DomainError{Code: "RESCHEDULE_NOT_ALLOWED", Message: "booking can no longer be rescheduled"}
	ErrCancellationNotAllowed = &DomainError{Code: "CANCELLATION_NOT_ALLOWED", Message: "booking can no longer be cancelled"}
	ErrTimeSlotUnavailable    = &DomainError{Code: "TIME_SLOT_UNAVAILABLE", Message: "requested time does not match an open slot"}
)

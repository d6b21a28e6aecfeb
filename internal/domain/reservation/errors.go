package reservation

import (
	"fmt"
	"strings"

	"venue-reservation/internal/pkg/errs"
)

var (
	ErrInvalidStatus       = errs.Wrap(errs.ErrValidation, "invalid reservation status")
	ErrInvalidReferenceID  = errs.Wrap(errs.ErrValidation, "invalid reference id")
	ErrInvalidPrefix       = errs.Wrap(errs.ErrValidation, "reference prefix must be upper-case alphanumeric")
	ErrInsufficientPayment = errs.Wrap(errs.ErrValidation, "amount paid is below the amount requested")
	ErrMissingSession      = errs.Wrap(errs.ErrValidation, "gateway session is incomplete")
)

// InvalidStateError reports an operation attempted from a status that does not allow it.
type InvalidStateError struct {
	Action  string
	Current Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a reservation in status %q", e.Action, e.Current)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == errs.ErrInvalidState
}

func invalidState(action string, current Status) error {
	return &InvalidStateError{Action: action, Current: current}
}

// ValidationError lists every rejected requester field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range fieldOrder {
		if reason, ok := e.Fields[f]; ok {
			parts = append(parts, f+": "+reason)
		}
	}
	return "invalid reservation request: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == errs.ErrValidation
}

var fieldOrder = []string{
	"fullName", "email", "phone", "organizationName", "eventTitle", "eventDate", "description", "link",
}

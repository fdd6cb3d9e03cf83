package session

import "errors"

var (
	// ErrInvalidTransition is returned when an operation is not allowed
	// from the current screen.
	ErrInvalidTransition = errors.New("session: operation not allowed on this screen")
	// ErrQuotaExceeded is returned by AddBill when the free tier's monthly
	// upload quota is used up.
	ErrQuotaExceeded = errors.New("session: monthly bill quota reached")
	// ErrBillNotFound is returned by RemoveBill for an unknown ID.
	ErrBillNotFound = errors.New("session: bill not found")
)

// ValidationError reports bad user input. Reason is safe to show to the
// user as-is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

package domain

import "errors"

var (
	// ErrInvalidInput marks trip parameters rejected before any provider call.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRouteUnavailable marks a route provider that answered but had no usable route.
	ErrRouteUnavailable = errors.New("route unavailable")
	// ErrProviderFailure marks a transport or infrastructure failure talking to a provider.
	ErrProviderFailure = errors.New("provider infrastructure failure")
	// ErrPlanningInProgress is returned when a run is submitted while another is active.
	ErrPlanningInProgress = errors.New("a trip is already being planned")
	// ErrInvalidRoute marks route geometry that violates the planner's preconditions.
	ErrInvalidRoute = errors.New("invalid route")
)

const (
	msgRouteUnavailable = "Could not fetch route. Check locations and try again."
	msgInProgress       = "A trip is already being planned. Try again when it finishes."
	msgGeneric          = "Failed to plan trip. Try again."
)

// ValidationError carries the human-readable reason a trip was rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// UserMessage maps an error to the single message shown to the user.
func UserMessage(err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrRouteUnavailable):
		return msgRouteUnavailable
	case errors.Is(err, ErrPlanningInProgress):
		return msgInProgress
	default:
		return msgGeneric
	}
}

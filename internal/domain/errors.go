package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters matches any *InvalidParametersError via errors.Is.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrSimulationFault matches any *SimulationFault via errors.Is.
	ErrSimulationFault = errors.New("simulation fault")
)

// InvalidParametersError reports out-of-range or inconsistent inputs.
type InvalidParametersError struct {
	Field  string
	Reason string
}

func (e *InvalidParametersError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid parameters: %s", e.Reason)
	}
	return fmt.Sprintf("invalid parameters: %s %s", e.Field, e.Reason)
}

func (e *InvalidParametersError) Is(target error) bool { return target == ErrInvalidParameters }

// Invalid builds an InvalidParametersError with a formatted reason.
func Invalid(field, format string, args ...any) *InvalidParametersError {
	return &InvalidParametersError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// SimulationFault is an internal invariant violation. It is fatal to the run
// that produced it and never clamped away.
type SimulationFault struct {
	Year   int
	Age    int
	Reason string
}

func (e *SimulationFault) Error() string {
	return fmt.Sprintf("simulation fault at year %d (age %d): %s", e.Year, e.Age, e.Reason)
}

func (e *SimulationFault) Is(target error) bool { return target == ErrSimulationFault }

package opt

import (
	"errors"
	"fmt"
)

// ErrInvalidDesignSpace is returned when the initial design cannot produce
// the requested number of candidates from a finite design space. It is
// surfaced before any oracle call is made.
var ErrInvalidDesignSpace = errors.New("design space cannot supply requested batch")

// ModelFitError reports a surrogate fit that did not converge (singular
// covariance or NaN likelihood) for one objective. Round-fatal unless the
// campaign is configured with fit retries.
type ModelFitError struct {
	Objective int
	Err       error
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("surrogate fit failed for objective %d: %v", e.Objective, e.Err)
}

func (e *ModelFitError) Unwrap() error { return e.Err }

// OracleError reports an oracle that could not produce a value for a
// candidate. The controller propagates it immediately; retry semantics are
// the caller's decision.
type OracleError struct {
	Key string
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle evaluation failed for candidate %q: %v", e.Key, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

package mdp

import "errors"

var (
	// ErrUnknownAction is returned when an action has no outcome list in a state
	ErrUnknownAction = errors.New("action not available in state")
	// ErrNoActions is returned when a decision is asked of a state without actions
	ErrNoActions = errors.New("state has no actions")
	// ErrNotConverged reports that an iteration cap was hit before the stop criterion
	ErrNotConverged = errors.New("did not converge")
	// ErrSingular is returned when the policy evaluation system cannot be factorized
	ErrSingular = errors.New("policy evaluation system is singular")
	// ErrInvalidMap is wrapped by every Validate failure
	ErrInvalidMap = errors.New("invalid map")
	// ErrInvalidSettings is returned by the solvers for a discount or stop
	// criterion out of range
	ErrInvalidSettings = errors.New("invalid solver settings")
)

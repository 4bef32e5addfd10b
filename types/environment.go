package types

// Environment the rollouts are played in
type Environment interface {
	// Reset called at the start of each episode
	Reset() (State, error)
	// Step applies the action to the current state and returns the state reached
	Step(Action) (State, error)
}

// State of the system that RL policies observe
type State interface {
	// Indexed by the Hash
	// Should be deterministic
	Hash() string
	// Actions possible from the state, empty once the episode is over
	Actions() []Action
	// Reward received for occupying the state
	Reward() float64
}

// And Action that RL policy can take
type Action interface {
	// Index of the action
	// Should be deterministic
	Hash() string
}

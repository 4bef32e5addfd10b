package types

import "fmt"

type AgentConfig struct {
	Episodes    int
	Horizon     int
	Policy      Policy
	Environment Environment
}

// Agent plays a fixed policy in an environment
type Agent struct {
	config *AgentConfig
	// collects the traces of the run
	// Only populated if the Run function is invoked
	traces      []*Trace
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		traces:      make([]*Trace, 0, config.Episodes),
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// Run the agent for the specified number of episodes and horizon
func (a *Agent) Run() error {
	a.traces = a.traces[:0]
	for i := 0; i < a.config.Episodes; i++ {
		trace, err := a.RunEpisode(i)
		if err != nil {
			return fmt.Errorf("episode %d: %w", i, err)
		}
		a.traces = append(a.traces, trace)
	}
	return nil
}

// Traces of the last Run
func (a *Agent) Traces() []*Trace {
	return a.traces
}

// RunEpisode plays a single episode and returns the resulting trace.
// The episode ends at the horizon, in a state without actions, or when the
// policy has no action to offer.
func (a *Agent) RunEpisode(episode int) (*Trace, error) {
	state, err := a.environment.Reset()
	if err != nil {
		return nil, err
	}
	trace := NewTrace()
	trace.SetStart(state)
	actions := state.Actions()

	for i := 0; i < a.config.Horizon; i++ {
		if len(actions) == 0 {
			break
		}
		nextAction, ok := a.policy.NextAction(i, state, actions)
		if !ok {
			break
		}
		nextState, err := a.environment.Step(nextAction)
		if err != nil {
			return trace, err
		}

		trace.Append(i, state, nextAction, nextState)
		state = nextState
		actions = nextState.Actions()
	}
	return trace, nil
}

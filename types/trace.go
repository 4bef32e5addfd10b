package types

import (
	"encoding/json"
	"math"
)

// Trace of an episode as triplets (state, action, nextState)
type Trace struct {
	start      State
	states     []State
	actions    []Action
	nextStates []State
}

func NewTrace() *Trace {
	return &Trace{
		states:     make([]State, 0),
		actions:    make([]Action, 0),
		nextStates: make([]State, 0),
	}
}

// SetStart records the state returned by Reset
func (t *Trace) SetStart(s State) {
	t.start = s
}

// Start is the first state of the episode, nil if never set
func (t *Trace) Start() State {
	if t.start != nil {
		return t.start
	}
	if len(t.states) > 0 {
		return t.states[0]
	}
	return nil
}

func (t *Trace) Append(step int, state State, action Action, nextState State) {
	t.states = append(t.states, state)
	t.actions = append(t.actions, action)
	t.nextStates = append(t.nextStates, nextState)
}

func (t *Trace) Len() int {
	return len(t.states)
}

func (t *Trace) Get(i int) (State, Action, State, bool) {
	if i >= len(t.states) {
		return nil, nil, nil, false
	}
	return t.states[i], t.actions[i], t.nextStates[i], true
}

func (t *Trace) Last() (State, Action, State, bool) {
	if len(t.states) < 1 {
		return nil, nil, nil, false
	}
	lastIndex := len(t.states) - 1
	return t.states[lastIndex], t.actions[lastIndex], t.nextStates[lastIndex], true
}

// Final is the state the episode ended in
func (t *Trace) Final() State {
	if _, _, next, ok := t.Last(); ok {
		return next
	}
	return t.Start()
}

// DiscountedReturn is R(s0) + gamma R(s1) + gamma^2 R(s2) + ... along the trace
func DiscountedReturn(t *Trace, gamma float64) float64 {
	start := t.Start()
	if start == nil {
		return 0
	}
	ret := start.Reward()
	for i, next := range t.nextStates {
		ret += math.Pow(gamma, float64(i+1)) * next.Reward()
	}
	return ret
}

type traceStep struct {
	State     string  `json:"state"`
	Action    string  `json:"action"`
	NextState string  `json:"next_state"`
	Reward    float64 `json:"reward"`
}

func (t *Trace) MarshalJSON() ([]byte, error) {
	steps := make([]traceStep, len(t.states))
	for i := range t.states {
		steps[i] = traceStep{
			State:     t.states[i].Hash(),
			Action:    t.actions[i].Hash(),
			NextState: t.nextStates[i].Hash(),
			Reward:    t.nextStates[i].Reward(),
		}
	}
	start := ""
	if s := t.Start(); s != nil {
		start = s.Hash()
	}
	return json.Marshal(map[string]interface{}{
		"start": start,
		"steps": steps,
	})
}

package types

import (
	"golang.org/x/exp/rand"
)

// Policy picks the next action of a rollout
type Policy interface {
	NextAction(int, State, []Action) (Action, bool)
	Reset()
}

// RandomPolicy picks uniformly among the available actions
type RandomPolicy struct {
	seed uint64
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		seed: seed,
		rand: rand.New(rand.NewSource(seed)),
	}
}

// Reset restarts the random sequence
func (r *RandomPolicy) Reset() {
	r.rand = rand.New(rand.NewSource(r.seed))
}

func (r *RandomPolicy) NextAction(step int, state State, actions []Action) (Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	i := r.rand.Intn(len(actions))
	return actions[i], true
}

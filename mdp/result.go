package mdp

import "time"

const (
	ValueIterationName  = "value-iteration"
	PolicyIterationName = "policy-iteration"
)

// Iteration is reported after each value iteration sweep and each policy
// iteration round
type Iteration struct {
	Algorithm string
	Index     int
	// largest utility change of the iteration
	Delta float64
	// states whose policy changed, always 0 for value iteration
	Changed int
}

// Result summarises a solve
type Result struct {
	Algorithm     string
	Iterations    int
	Deltas        []float64
	PolicyChanges []int
	Converged     bool
	Elapsed       time.Duration
}

func newResult(algorithm string) *Result {
	return &Result{
		Algorithm:     algorithm,
		Deltas:        make([]float64, 0),
		PolicyChanges: make([]int, 0),
	}
}

// LastDelta is the change of the final iteration, 0 when nothing ran
func (r *Result) LastDelta() float64 {
	if len(r.Deltas) == 0 {
		return 0
	}
	return r.Deltas[len(r.Deltas)-1]
}

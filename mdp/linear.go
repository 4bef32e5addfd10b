package mdp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// singular values below rcond times the largest are treated as zero
var rcond = math.Nextafter(1, 2) - 1

// CalculateUtilitiesLinear evaluates the current policy exactly by solving
//
//	u(s) - gamma * sum_{s'} P(s' | s, policy(s)) u(s') = R(s)
//
// for all states at once. Terminal rows reduce to u(s) = R(s). The system is
// solved in the least squares sense so degenerate maps still get an answer.
// Only non-terminal utilities are written.
func (m *Map) CalculateUtilitiesLinear() error {
	n := len(m.States)
	if n == 0 {
		return nil
	}
	coeffs := mat.NewDense(n, n, nil)
	ordinate := mat.NewDense(n, 1, nil)

	for _, s := range m.States {
		row := s.ID
		ordinate.Set(row, 0, s.Reward)
		coeffs.Set(row, row, coeffs.At(row, row)+1.0)
		if s.Terminal() {
			continue
		}
		outcomes, ok := s.Transitions[s.Policy]
		if !ok {
			return fmt.Errorf("state %v policy %s: %w", s.Coords, s.Policy, ErrUnknownAction)
		}
		for _, o := range outcomes {
			col := o.Next
			coeffs.Set(row, col, coeffs.At(row, col)-m.Gamma*o.Probability)
		}
	}

	solution, err := leastSquares(coeffs, ordinate)
	if err != nil {
		return err
	}
	for _, s := range m.States {
		if !s.Terminal() {
			s.Utility = solution.At(s.ID, 0)
		}
	}
	return nil
}

// leastSquares returns the minimum norm solution of a x = b through the SVD
// of a.
func leastSquares(a, b *mat.Dense) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrSingular
	}
	rows, cols := a.Dims()
	rank := svd.Rank(rcond * float64(max(rows, cols)))
	if rank == 0 {
		return nil, ErrSingular
	}
	var x mat.Dense
	svd.SolveTo(&x, b, rank)
	return &x, nil
}

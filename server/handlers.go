package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zeu5/gridmdp/grid"
	"github.com/zeu5/gridmdp/mdp"
	"github.com/zeu5/gridmdp/problems"
	"github.com/zeu5/gridmdp/render"
)

const (
	algorithmValue  = "value"
	algorithmPolicy = "policy"
)

type goalSummary struct {
	Cell   [2]int  `json:"cell"`
	Reward float64 `json:"reward"`
}

type problemSummary struct {
	Name         string         `json:"name"`
	Cols         int            `json:"cols"`
	Rows         int            `json:"rows"`
	Walls        [][2]int       `json:"walls"`
	Goals        []goalSummary  `json:"goals"`
	LivingReward float64        `json:"living_reward"`
	Noise        problems.Noise `json:"noise"`
}

func summarize(spec problems.Spec) problemSummary {
	walls := make([][2]int, len(spec.Layout.Walls))
	for i, w := range spec.Layout.Walls {
		walls[i] = [2]int{w.Col, w.Row}
	}
	goals := make([]goalSummary, len(spec.Goals))
	for i, g := range spec.Goals {
		goals[i] = goalSummary{Cell: [2]int{g.Coords.Col, g.Coords.Row}, Reward: g.Reward}
	}
	return problemSummary{
		Name:         spec.Name,
		Cols:         spec.Layout.Cols,
		Rows:         spec.Layout.Rows,
		Walls:        walls,
		Goals:        goals,
		LivingReward: spec.LivingReward,
		Noise:        spec.Noise,
	}
}

func handleProblems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"problems": problems.Names()})
}

func handleProblem(c *gin.Context) {
	spec, err := problems.Lookup(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summarize(spec))
}

type SolveRequest struct {
	Problem       string   `json:"problem"`
	Algorithm     string   `json:"algorithm"`
	Gamma         *float64 `json:"gamma"`
	StopCrit      *float64 `json:"stop_crit"`
	MaxIterations int      `json:"max_iterations"`
	Seed          *uint64  `json:"seed"`
}

type SolveResponse struct {
	Problem     string       `json:"problem"`
	Algorithm   string       `json:"algorithm"`
	Utilities   [][]*float64 `json:"utilities"`
	Policy      [][]string   `json:"policy"`
	Iterations  int          `json:"iterations"`
	Converged   bool         `json:"converged"`
	Deltas      []float64    `json:"deltas"`
	ValuesText  string       `json:"values_text"`
	ActionsText string       `json:"actions_text"`
	Error       string       `json:"error,omitempty"`
}

func (r *SolveRequest) check() error {
	if r.Problem == "" {
		return errors.New("problem is required")
	}
	if r.Algorithm == "" {
		r.Algorithm = algorithmValue
	}
	if r.Algorithm != algorithmValue && r.Algorithm != algorithmPolicy {
		return errors.New("algorithm must be value or policy")
	}
	if r.Gamma != nil && (*r.Gamma <= 0 || *r.Gamma >= 1) {
		return errors.New("gamma must be in (0, 1)")
	}
	if r.StopCrit != nil && *r.StopCrit <= 0 {
		return errors.New("stop_crit must be positive")
	}
	if r.MaxIterations < 0 {
		return errors.New("max_iterations must not be negative")
	}
	return nil
}

func (r *SolveRequest) apply(m *mdp.Map) {
	if r.Gamma != nil {
		m.Gamma = *r.Gamma
	}
	if r.StopCrit != nil {
		m.StopCrit = *r.StopCrit
	}
	if r.Seed != nil {
		m.Seed = *r.Seed
	}
	if r.MaxIterations > 0 {
		m.MaxSweeps = r.MaxIterations
		m.MaxRounds = r.MaxIterations
	}
}

func handleSolve(c *gin.Context) {
	req := SolveRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}
	if err := req.check(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := problems.Get(req.Problem)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	req.apply(m)

	var result *mdp.Result
	if req.Algorithm == algorithmPolicy {
		result, err = m.PolicyIteration()
	} else {
		result, err = m.ValueIteration()
	}
	status := http.StatusOK
	if err != nil {
		if !errors.Is(err, mdp.ErrNotConverged) {
			log.Printf("[server] solving %s: %v", req.Problem, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		status = http.StatusUnprocessableEntity
	}

	resp, rerr := newSolveResponse(req, m, result)
	if rerr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": rerr.Error()})
		return
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

func newSolveResponse(req SolveRequest, m *mdp.Map, result *mdp.Result) (*SolveResponse, error) {
	policy, err := m.GreedyPolicy()
	if err != nil {
		return nil, err
	}
	values, err := render.Values(m)
	if err != nil {
		return nil, err
	}
	actions, err := render.Actions(m)
	if err != nil {
		return nil, err
	}

	resp := &SolveResponse{
		Problem:     req.Problem,
		Algorithm:   req.Algorithm,
		Utilities:   make([][]*float64, m.Rows),
		Policy:      make([][]string, m.Rows),
		Iterations:  result.Iterations,
		Converged:   result.Converged,
		Deltas:      result.Deltas,
		ValuesText:  values,
		ActionsText: actions,
	}
	for r := 0; r < m.Rows; r++ {
		resp.Utilities[r] = make([]*float64, m.Cols)
		resp.Policy[r] = make([]string, m.Cols)
		for col := 0; col < m.Cols; col++ {
			s, ok := m.At(grid.Coord{Col: col, Row: r})
			if !ok {
				continue
			}
			resp.Policy[r][col] = policy[s.ID].String()
			if s.IsWall {
				continue
			}
			u := s.Utility
			resp.Utilities[r][col] = &u
		}
	}
	return resp, nil
}

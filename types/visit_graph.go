package types

import (
	"encoding/json"

	"github.com/zeu5/gridmdp/util"
)

// NodeState is anything with a stable key, rollout states and grid cells alike
type NodeState interface {
	Hash() string
}

// Node counts the visits of one state, the actions taken there and the
// successors reached
type Node struct {
	Key        string         `json:"key"`
	Visits     int            `json:"visits"`
	Actions    map[string]int `json:"actions"`
	Successors map[string]int `json:"successors"`
}

func newNode(key string) *Node {
	return &Node{
		Key:        key,
		Actions:    make(map[string]int),
		Successors: make(map[string]int),
	}
}

// MostTaken is the action chosen most often in the state, ties go to the
// label sorting first. False when no action was taken.
func (n *Node) MostTaken() (string, bool) {
	best, count := "", 0
	for a, c := range n.Actions {
		if c > count || (c == count && a < best) {
			best, count = a, c
		}
	}
	return best, count > 0
}

// VisitGraph accumulates the states occupied by rollouts and the
// transitions observed between them
type VisitGraph struct {
	Nodes map[string]*Node `json:"nodes"`
}

func NewVisitGraph() *VisitGraph {
	return &VisitGraph{
		Nodes: make(map[string]*Node),
	}
}

func (v *VisitGraph) node(key string) *Node {
	n, ok := v.Nodes[key]
	if !ok {
		n = newNode(key)
		v.Nodes[key] = n
	}
	return n
}

// Update counts a visit of from where action led to to. The successor is
// registered without a visit, the next Update or Touch counts it.
func (v *VisitGraph) Update(from NodeState, action string, to NodeState) {
	n := v.node(from.Hash())
	n.Visits += 1
	n.Actions[action] += 1
	n.Successors[to.Hash()] += 1
	v.node(to.Hash())
}

// Touch counts a visit of a state without a transition
func (v *VisitGraph) Touch(s NodeState) {
	v.node(s.Hash()).Visits += 1
}

func (v *VisitGraph) GetVisits() map[string]int {
	results := make(map[string]int)
	for k, n := range v.Nodes {
		results[k] = n.Visits
	}
	return results
}

// Transitions is the number of distinct (state, successor) pairs observed
func (v *VisitGraph) Transitions() int {
	count := 0
	for _, n := range v.Nodes {
		count += len(n.Successors)
	}
	return count
}

// Record writes the graph as json
func (v *VisitGraph) Record(filePath string) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return util.WriteToFile(filePath, string(bs))
}

package types

import (
	"fmt"
	"path"
	"strconv"

	"github.com/zeu5/gridmdp/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ReturnDataSet holds the discounted return of each episode and the running
// mean after each episode
type ReturnDataSet struct {
	Returns     []float64
	RunningMean []float64
}

// Mean of all the returns, 0 without episodes
func (r *ReturnDataSet) Mean() float64 {
	if len(r.RunningMean) == 0 {
		return 0
	}
	return r.RunningMean[len(r.RunningMean)-1]
}

type ReturnAnalyzer struct {
	gamma   float64
	dataSet *ReturnDataSet
	sum     float64
}

var _ Analyzer = &ReturnAnalyzer{}

func NewReturnAnalyzer(gamma float64) *ReturnAnalyzer {
	r := &ReturnAnalyzer{gamma: gamma}
	r.Reset()
	return r
}

func (r *ReturnAnalyzer) Analyze(_ int, trace *Trace) {
	ret := DiscountedReturn(trace, r.gamma)
	r.sum += ret
	r.dataSet.Returns = append(r.dataSet.Returns, ret)
	r.dataSet.RunningMean = append(r.dataSet.RunningMean, r.sum/float64(len(r.dataSet.Returns)))
}

func (r *ReturnAnalyzer) DataSet() DataSet {
	return r.dataSet
}

func (r *ReturnAnalyzer) Reset() {
	r.sum = 0
	r.dataSet = &ReturnDataSet{
		Returns:     make([]float64, 0),
		RunningMean: make([]float64, 0),
	}
}

// OutcomeDataSet counts how episodes ended
type OutcomeDataSet struct {
	// ended in a terminal state with a positive reward
	Positive int
	// ended in a terminal state with a non positive reward
	Negative int
	// hit the horizon
	Unfinished int
}

func (o OutcomeDataSet) Total() int {
	return o.Positive + o.Negative + o.Unfinished
}

type OutcomeAnalyzer struct {
	dataSet OutcomeDataSet
}

var _ Analyzer = &OutcomeAnalyzer{}

func NewOutcomeAnalyzer() *OutcomeAnalyzer {
	return &OutcomeAnalyzer{}
}

func (o *OutcomeAnalyzer) Analyze(_ int, trace *Trace) {
	final := trace.Final()
	switch {
	case final == nil || len(final.Actions()) != 0:
		o.dataSet.Unfinished += 1
	case final.Reward() > 0:
		o.dataSet.Positive += 1
	default:
		o.dataSet.Negative += 1
	}
}

func (o *OutcomeAnalyzer) DataSet() DataSet {
	return o.dataSet
}

func (o *OutcomeAnalyzer) Reset() {
	o.dataSet = OutcomeDataSet{}
}

// VisitAnalyzer accumulates the visit graph of all the traces
type VisitAnalyzer struct {
	graph *VisitGraph
}

var _ Analyzer = &VisitAnalyzer{}

func NewVisitAnalyzer() *VisitAnalyzer {
	return &VisitAnalyzer{graph: NewVisitGraph()}
}

func (v *VisitAnalyzer) Analyze(_ int, trace *Trace) {
	if start := trace.Start(); start != nil && trace.Len() == 0 {
		v.graph.Touch(start)
	}
	for i := 0; i < trace.Len(); i++ {
		s, a, ns, _ := trace.Get(i)
		v.graph.Update(s, a.Hash(), ns)
	}
}

func (v *VisitAnalyzer) DataSet() DataSet {
	return v.graph
}

func (v *VisitAnalyzer) Reset() {
	v.graph = NewVisitGraph()
}

// PrintComparator prints a one line summary per experiment for the
// datasets produced by the analyzers of this package
func PrintComparator() Comparator {
	return func(run int, names []string, ds []DataSet) error {
		for i, name := range names {
			switch d := ds[i].(type) {
			case *ReturnDataSet:
				fmt.Printf("Run %d, %s: mean discounted return %.4f over %d episodes\n", run+1, name, d.Mean(), len(d.Returns))
			case OutcomeDataSet:
				fmt.Printf("Run %d, %s: positive %d, negative %d, unfinished %d\n", run+1, name, d.Positive, d.Negative, d.Unfinished)
			case *VisitGraph:
				fmt.Printf("Run %d, %s: %d states visited, %d transitions observed\n", run+1, name, len(d.Nodes), d.Transitions())
			}
		}
		return nil
	}
}

// ReturnPlotter plots the running mean return of every experiment in a run
func ReturnPlotter(plotPath string) Comparator {
	return func(run int, names []string, ds []DataSet) error {
		if err := util.EnsureDir(plotPath); err != nil {
			return err
		}
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "Mean discounted return"
		for i := 0; i < len(names); i++ {
			dataSet, ok := ds[i].(*ReturnDataSet)
			if !ok {
				continue
			}
			points := make(plotter.XYs, len(dataSet.RunningMean))
			for j, v := range dataSet.RunningMean {
				points[j] = plotter.XY{
					X: float64(j + 1),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				return fmt.Errorf("series %s: %w", names[i], err)
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_returns.png"))
	}
}

// VisitRecorder writes the visit graph of each experiment as json
func VisitRecorder(recordPath string) Comparator {
	return func(run int, names []string, ds []DataSet) error {
		if err := util.EnsureDir(recordPath); err != nil {
			return err
		}
		for i, name := range names {
			graph, ok := ds[i].(*VisitGraph)
			if !ok {
				continue
			}
			if err := graph.Record(path.Join(recordPath, strconv.Itoa(run)+"_"+name+"_visits.json")); err != nil {
				return err
			}
		}
		return nil
	}
}

package rrsched

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the timing of a finished run.
type Summary struct {
	NumProcs         int
	AvgWaiting       float64
	StdDevWaiting    float64
	AvgTurnaround    float64
	StdDevTurnaround float64
	AvgResponse      float64
	MaxWaiting       float64
	Makespan         Ttick
	Throughput       float64 // procs per tick
	Utilization      float64 // busy fraction of the makespan
	ContextSwitches  int
}

func (s Summary) String() string {
	return fmt.Sprintf("procs %d avg wait %.2f (sd %.2f, max %.0f) avg turnaround %.2f (sd %.2f) avg response %.2f makespan %v throughput %.3f util %.1f%% switches %d",
		s.NumProcs, s.AvgWaiting, s.StdDevWaiting, s.MaxWaiting, s.AvgTurnaround, s.StdDevTurnaround,
		s.AvgResponse, s.Makespan, s.Throughput, s.Utilization*100, s.ContextSwitches)
}

// Summarize computes the summary of a completed batch and its schedule.
// Unfinished procs are an error: there is no partial summary.
func Summarize(procs []*Proc, sched *Schedule) (Summary, error) {
	s := Summary{NumProcs: len(procs)}
	if len(procs) == 0 {
		return s, nil
	}

	waiting := make([]float64, len(procs))
	turnaround := make([]float64, len(procs))
	response := make([]Ttick, len(procs))
	bursts := make([]Ttick, len(procs))
	for i, p := range procs {
		ta, ok := p.Turnaround()
		if !ok {
			return Summary{}, fmt.Errorf("%w: proc %d has not finished", ErrInvalidConfig, p.procId)
		}
		rt, _ := p.Response()
		waiting[i] = float64(p.waiting)
		turnaround[i] = float64(ta)
		response[i] = rt
		bursts[i] = p.burst
	}

	s.AvgWaiting, s.StdDevWaiting = stat.MeanStdDev(waiting, nil)
	s.AvgTurnaround, s.StdDevTurnaround = stat.MeanStdDev(turnaround, nil)
	s.AvgResponse = avg(response)
	s.MaxWaiting = floats.Max(waiting)
	if len(procs) == 1 {
		// the unbiased estimator is undefined for one sample
		s.StdDevWaiting, s.StdDevTurnaround = 0, 0
	}

	if sched != nil {
		s.Makespan = sched.Makespan()
		s.ContextSwitches = sched.ContextSwitches()
	}
	if s.Makespan > 0 {
		s.Throughput = float64(len(procs)) / float64(s.Makespan)
		s.Utilization = float64(sum(bursts)) / float64(s.Makespan)
	}
	return s, nil
}

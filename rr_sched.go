package rrsched

import (
	"fmt"
	"io"
	"os"
)

// Slice is one contiguous stretch of execution of a single proc.
type Slice struct {
	ProcId Tid
	Start  Ttick
	Stop   Ttick
}

func (s Slice) Len() Ttick {
	return s.Stop - s.Start
}

// Schedule is the execution trace of one run, in execution order.
type Schedule struct {
	Quantum Ttick
	Slices  []Slice
	Idle    Ttick // ticks where nothing had arrived yet
}

// Makespan is the tick at which the last proc finished.
func (s *Schedule) Makespan() Ttick {
	if len(s.Slices) == 0 {
		return 0
	}
	return s.Slices[len(s.Slices)-1].Stop
}

// ContextSwitches counts dispatches that hand the cpu to a different proc.
func (s *Schedule) ContextSwitches() int {
	n := 0
	for i := 1; i < len(s.Slices); i++ {
		if s.Slices[i].ProcId != s.Slices[i-1].ProcId {
			n += 1
		}
	}
	return n
}

type RRSched struct {
	quantum Ttick
	verbose bool
	out     io.Writer
}

type Option func(rs *RRSched)

// WithVerbose prints every dispatch and completion to w.
func WithVerbose(w io.Writer) Option {
	return func(rs *RRSched) {
		rs.verbose = true
		rs.out = w
	}
}

func NewRRSched(quantum Ttick, opts ...Option) *RRSched {
	rs := &RRSched{quantum: quantum, out: os.Stdout}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// RunRoundRobin runs procs to completion with the given quantum and returns
// them, in input order, with their completion stats filled in.
func RunRoundRobin(procs []*Proc, quantum Ttick) ([]*Proc, error) {
	if _, err := NewRRSched(quantum).Run(procs); err != nil {
		return nil, err
	}
	return procs, nil
}

func (rs *RRSched) validate(procs []*Proc) error {
	if rs.quantum <= 0 {
		return fmt.Errorf("%w: quantum must be > 0, got %d", ErrInvalidConfig, rs.quantum)
	}
	seen := make(map[Tid]bool, len(procs))
	for i, p := range procs {
		if p == nil {
			return fmt.Errorf("%w: proc at index %d is nil", ErrInvalidConfig, i)
		}
		if p.burst <= 0 {
			return fmt.Errorf("%w: proc %d has burst %d, must be > 0", ErrInvalidConfig, p.procId, p.burst)
		}
		if p.arrival < 0 {
			return fmt.Errorf("%w: proc %d has negative arrival %d", ErrInvalidConfig, p.procId, p.arrival)
		}
		if p.remaining != p.burst {
			return fmt.Errorf("%w: proc %d already ran (remaining %d of %d)", ErrInvalidConfig, p.procId, p.remaining, p.burst)
		}
		if seen[p.procId] {
			return fmt.Errorf("%w: duplicate proc id %d", ErrInvalidConfig, p.procId)
		}
		seen[p.procId] = true
	}
	return nil
}

// Run simulates procs until every one of them is done. The procs are only
// updated if the whole run succeeds.
//
// When a proc is preempted at tick t, procs that arrived by t are queued
// ahead of it: fresh arrivals get the next slot over the preempted proc.
func (rs *RRSched) Run(procs []*Proc) (*Schedule, error) {
	if err := rs.validate(procs); err != nil {
		return nil, err
	}

	batch := CloneProcs(procs)
	sched := &Schedule{Quantum: rs.quantum, Slices: make([]Slice, 0, len(batch))}
	q := newReadyQueue(len(batch))
	currTick := Ttick(0)
	numDone := 0

	q.admitArrived(currTick, batch, noProc)

	for numDone < len(batch) {
		if q.qlen() == 0 {
			next, ok := nextArrival(batch, currTick)
			if !ok {
				return nil, fmt.Errorf("%w: %d procs unfinished at %v but none pending", ErrInvariantViolation, len(batch)-numDone, currTick)
			}
			if rs.verbose {
				fmt.Fprintf(rs.out, "t=%v: idle until %v\n", currTick, next)
			}
			sched.Idle += next - currTick
			currTick = next
			q.admitArrived(currTick, batch, noProc)
			continue
		}

		// get proc to run, which is the one at the head of the q
		idx := q.deq()
		procToRun := batch[idx]
		procToRun.markStarted(currTick)
		ticksUsed, done := procToRun.runTillOutOrDone(rs.quantum)
		sched.Slices = append(sched.Slices, Slice{procToRun.procId, currTick, currTick + ticksUsed})
		currTick += ticksUsed
		if rs.verbose {
			fmt.Fprintf(rs.out, "t=%v: ran proc %v for %v, remaining %v\n", currTick, procToRun.procId, ticksUsed, procToRun.remaining)
		}

		// arrivals first, then the preempted proc goes to the back
		q.admitArrived(currTick, batch, idx)

		if !done {
			q.enq(idx)
			continue
		}
		procToRun.markDone(currTick)
		if err := checkDone(procToRun); err != nil {
			return nil, err
		}
		numDone += 1
		if rs.verbose {
			fmt.Fprintf(rs.out, "t=%v: proc %v done, waited %v\n", currTick, procToRun.procId, procToRun.waiting)
		}
	}

	for i, p := range batch {
		*procs[i] = *p
	}
	return sched, nil
}

// nextArrival returns the earliest arrival after currTick among unfinished procs.
func nextArrival(batch []*Proc, currTick Ttick) (Ttick, bool) {
	found := false
	next := Ttick(0)
	for _, p := range batch {
		if p.remaining > 0 && p.arrival > currTick && (!found || p.arrival < next) {
			next = p.arrival
			found = true
		}
	}
	return next, found
}

func checkDone(p *Proc) error {
	if p.remaining != 0 {
		return fmt.Errorf("%w: proc %d finished with remaining %d", ErrInvariantViolation, p.procId, p.remaining)
	}
	if p.waiting < 0 {
		return fmt.Errorf("%w: proc %d has negative waiting time %d", ErrInvariantViolation, p.procId, p.waiting)
	}
	if ta, _ := p.Turnaround(); ta < p.burst {
		return fmt.Errorf("%w: proc %d turnaround %d shorter than burst %d", ErrInvariantViolation, p.procId, ta, p.burst)
	}
	return nil
}

package rrsched

import (
	"strconv"

	"github.com/markphelps/optional"
)

// Proc is one simulated process. id, arrival, burst and priority are fixed at
// creation; the scheduler owns everything else while a run is in progress.
type Proc struct {
	procId      Tid
	arrival     Ttick
	burst       Ttick
	priority    int // recorded only, round robin ignores it
	remaining   Ttick
	timeStarted optional.Int // first dispatch
	timeDone    optional.Int // set once remaining hits 0
	waiting     Ttick
}

func NewProc(procId Tid, arrival Ttick, burst Ttick, priority int) *Proc {
	return &Proc{
		procId:    procId,
		arrival:   arrival,
		burst:     burst,
		priority:  priority,
		remaining: burst,
	}
}

func (p *Proc) String() string {
	str := strconv.Itoa(int(p.procId)) + ": " +
		"arrival: " + p.arrival.String() +
		", burst: " + p.burst.String() +
		", priority: " + strconv.Itoa(p.priority) +
		", remaining: " + p.remaining.String()
	p.timeDone.If(func(end int) {
		str += ", done: " + Ttick(end).String() + ", waited: " + p.waiting.String()
	})
	return str
}

func (p *Proc) Id() Tid          { return p.procId }
func (p *Proc) Arrival() Ttick   { return p.arrival }
func (p *Proc) Burst() Ttick     { return p.burst }
func (p *Proc) Priority() int    { return p.priority }
func (p *Proc) Remaining() Ttick { return p.remaining }
func (p *Proc) Waiting() Ttick   { return p.waiting }

func (p *Proc) done() bool {
	return p.remaining == 0
}

// StartTime returns the tick of the first dispatch, if there was one.
func (p *Proc) StartTime() (Ttick, bool) {
	v, err := p.timeStarted.Get()
	return Ttick(v), err == nil
}

// EndTime returns the completion tick. It is only present once the proc is done.
func (p *Proc) EndTime() (Ttick, bool) {
	v, err := p.timeDone.Get()
	return Ttick(v), err == nil
}

// Turnaround is the time from arrival to completion, or false while the proc
// is still unfinished.
func (p *Proc) Turnaround() (Ttick, bool) {
	end, ok := p.EndTime()
	if !ok {
		return 0, false
	}
	return end - p.arrival, true
}

// Response is the time from arrival to first dispatch.
func (p *Proc) Response() (Ttick, bool) {
	start, ok := p.StartTime()
	if !ok {
		return 0, false
	}
	return start - p.arrival, true
}

// Clone returns an independent copy, so separate runs never share descriptors.
func (p *Proc) Clone() *Proc {
	c := *p
	return &c
}

// runs proc for at most toRun ticks or until it is done,
// returning how many ticks were used and whether the proc finished
func (p *Proc) runTillOutOrDone(toRun Ttick) (Ttick, bool) {
	if p.remaining <= toRun {
		used := p.remaining
		p.remaining = 0
		return used, true
	}
	p.remaining -= toRun
	return toRun, false
}

func (p *Proc) markStarted(currTick Ttick) {
	if !p.timeStarted.Present() {
		p.timeStarted.Set(int(currTick))
	}
}

func (p *Proc) markDone(currTick Ttick) {
	p.timeDone.Set(int(currTick))
	p.waiting = currTick - p.arrival - p.burst
}

// CloneProcs copies a whole batch.
func CloneProcs(procs []*Proc) []*Proc {
	cp := make([]*Proc, len(procs))
	for i, p := range procs {
		cp[i] = p.Clone()
	}
	return cp
}

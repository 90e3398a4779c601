package rrsched

import (
	"math/rand"
)

// LoadGenT draws arrival, burst and priority uniformly from the configured ranges.
type LoadGenT struct {
	arrival  Range
	burst    Range
	priority Range
	rand     *rand.Rand
}

func newLoadGen(cfg *Config, r *rand.Rand) *LoadGenT {
	return &LoadGenT{
		arrival:  cfg.Arrival,
		burst:    cfg.Burst,
		priority: cfg.Priority,
		rand:     r,
	}
}

// procs get ids 1..nProcs in generation order
func (lg *LoadGenT) genLoad(nProcs int) []*Proc {
	procs := make([]*Proc, nProcs)

	for i := 0; i < nProcs; i++ {
		arrival := Ttick(lg.sample(lg.arrival))
		burst := Ttick(lg.sample(lg.burst))
		priority := lg.sample(lg.priority)
		procs[i] = NewProc(Tid(i+1), arrival, burst, priority)
	}

	return procs
}

func (lg *LoadGenT) sample(r Range) int {
	return r.Min + lg.rand.Intn(r.Max-r.Min+1)
}

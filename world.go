package rrsched

import (
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunResult is the outcome of one round robin run over a copy of the world's batch.
type RunResult struct {
	RunId    uuid.UUID
	Quantum  Ttick
	Procs    []*Proc
	Schedule *Schedule
	Summary  Summary
}

// World owns the generated batch and runs simulations over copies of it.
type World struct {
	cfg   *Config
	procs []*Proc
	out   io.Writer
	rand  *rand.Rand
}

func NewWorld(cfg *Config, out io.Writer) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w := &World{
		cfg:  cfg,
		out:  out,
		rand: rand.New(rand.NewSource(seed)),
	}
	w.genLoad()
	return w, nil
}

func (w *World) Procs() []*Proc {
	return w.procs
}

func (w *World) genLoad() {
	w.procs = newLoadGen(w.cfg, w.rand).genLoad(w.cfg.NumProcs)
}

// simulate runs one quantum over a private copy of the batch.
func (w *World) simulate(quantum Ttick, opts ...Option) (*RunResult, error) {
	procs := CloneProcs(w.procs)
	sched, err := NewRRSched(quantum, opts...).Run(procs)
	if err != nil {
		return nil, fmt.Errorf("quantum %d: %w", quantum, err)
	}
	summary, err := Summarize(procs, sched)
	if err != nil {
		return nil, fmt.Errorf("quantum %d: %w", quantum, err)
	}
	return &RunResult{
		RunId:    uuid.New(),
		Quantum:  quantum,
		Procs:    procs,
		Schedule: sched,
		Summary:  summary,
	}, nil
}

// Run prints the generated batch, simulates it with the configured quantum
// and prints the results.
func (w *World) Run() (*RunResult, error) {
	if _, err := fmt.Fprintln(w.out, "=== Generated Processes ==="); err != nil {
		return nil, err
	}
	if err := WriteProcs(w.out, w.procs); err != nil {
		return nil, err
	}

	var opts []Option
	if w.cfg.Verbose {
		opts = append(opts, WithVerbose(w.out))
	}
	res, err := w.simulate(Ttick(w.cfg.Quantum), opts...)
	if err != nil {
		return nil, err
	}

	if _, err := fmt.Fprintf(w.out, "\n=== Round Robin Scheduling (quantum %d) ===\n", res.Quantum); err != nil {
		return nil, err
	}
	if err := WriteProcs(w.out, res.Procs); err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(w.out); err != nil {
		return nil, err
	}
	if err := WriteGantt(w.out, res.Schedule); err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(w.out); err != nil {
		return nil, err
	}
	if err := WriteSummary(w.out, res.Summary); err != nil {
		return nil, err
	}
	return res, nil
}

// Sweep runs the batch once per quantum, concurrently. Each run gets its own
// copy of the batch. Results come back sorted by quantum.
func (w *World) Sweep(quanta []Ttick) ([]*RunResult, error) {
	results := make([]*RunResult, len(quanta))
	errs := make([]error, len(quanta))

	var wg sync.WaitGroup
	for i, q := range quanta {
		wg.Add(1)
		go func(i int, q Ttick) {
			defer wg.Done()
			results[i], errs[i] = w.simulate(q)
		}(i, q)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Quantum < results[j].Quantum
	})
	return results, nil
}

// WriteSweep prints one line per quantum.
func WriteSweep(out io.Writer, results []*RunResult) error {
	if _, err := fmt.Fprintf(out, "%8s%12s%15s%12s%10s\n", "Quantum", "Avg Wait", "Avg Turnaround", "Switches", "Makespan"); err != nil {
		return err
	}
	for _, r := range results {
		if _, err := fmt.Fprintf(out, "%8d%12.2f%15.2f%12d%10d\n",
			r.Quantum, r.Summary.AvgWaiting, r.Summary.AvgTurnaround, r.Summary.ContextSwitches, r.Summary.Makespan); err != nil {
			return err
		}
	}
	return nil
}

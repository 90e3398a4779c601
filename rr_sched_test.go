package rrsched

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endTime(t *testing.T, p *Proc) Ttick {
	t.Helper()
	end, ok := p.EndTime()
	require.True(t, ok, "proc %d has no end time", p.Id())
	return end
}

func TestRoundRobin_SingleProcTwoSlices(t *testing.T) {
	procs := []*Proc{NewProc(1, 0, 5, 1)}

	sched, err := NewRRSched(3).Run(procs)
	require.NoError(t, err)

	assert.Equal(t, []Slice{{1, 0, 3}, {1, 3, 5}}, sched.Slices)
	assert.Equal(t, Ttick(5), endTime(t, procs[0]))
	assert.Equal(t, Ttick(0), procs[0].Waiting())
	assert.Equal(t, Ttick(0), procs[0].Remaining())
}

func TestRoundRobin_EqualArrivalsServedInBatchOrder(t *testing.T) {
	procs := []*Proc{NewProc(1, 0, 4, 1), NewProc(2, 0, 4, 1)}

	sched, err := NewRRSched(4).Run(procs)
	require.NoError(t, err)

	assert.Equal(t, []Slice{{1, 0, 4}, {2, 4, 8}}, sched.Slices)
	assert.Equal(t, Ttick(4), endTime(t, procs[0]))
	assert.Equal(t, Ttick(0), procs[0].Waiting())
	assert.Equal(t, Ttick(8), endTime(t, procs[1]))
	assert.Equal(t, Ttick(4), procs[1].Waiting())
}

func TestRoundRobin_ArrivalQueuedAheadOfPreempted(t *testing.T) {
	procs := []*Proc{NewProc(1, 0, 4, 1), NewProc(2, 1, 2, 1)}

	sched, err := NewRRSched(2).Run(procs)
	require.NoError(t, err)

	assert.Equal(t, []Slice{{1, 0, 2}, {2, 2, 4}, {1, 4, 6}}, sched.Slices)
	assert.Equal(t, Ttick(4), endTime(t, procs[1]))
	assert.Equal(t, Ttick(1), procs[1].Waiting())
	assert.Equal(t, Ttick(6), endTime(t, procs[0]))
	assert.Equal(t, Ttick(2), procs[0].Waiting())
}

func TestRoundRobin_EmptyBatch(t *testing.T) {
	out, err := RunRoundRobin([]*Proc{}, 3)
	require.NoError(t, err)
	assert.Empty(t, out)

	sched, err := NewRRSched(3).Run(nil)
	require.NoError(t, err)
	assert.Empty(t, sched.Slices)
	assert.Equal(t, Ttick(0), sched.Makespan())
}

func TestRoundRobin_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		quantum Ttick
		procs   []*Proc
	}{
		{"zero quantum", 0, []*Proc{NewProc(1, 0, 3, 1)}},
		{"negative quantum", -2, []*Proc{NewProc(1, 0, 3, 1)}},
		{"zero quantum empty batch", 0, nil},
		{"zero burst", 3, []*Proc{NewProc(1, 0, 0, 1)}},
		{"negative burst", 3, []*Proc{NewProc(1, 0, -1, 1)}},
		{"negative arrival", 3, []*Proc{NewProc(1, -1, 2, 1)}},
		{"duplicate id", 3, []*Proc{NewProc(1, 0, 2, 1), NewProc(1, 1, 2, 1)}},
		{"nil proc", 3, []*Proc{nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RunRoundRobin(tt.procs, tt.quantum)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, out)
		})
	}
}

func TestRoundRobin_RejectsAlreadyRunBatch(t *testing.T) {
	procs := []*Proc{NewProc(1, 0, 5, 1)}
	_, err := RunRoundRobin(procs, 2)
	require.NoError(t, err)

	_, err = RunRoundRobin(procs, 2)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRoundRobin_InvalidInputLeavesBatchUntouched(t *testing.T) {
	procs := []*Proc{NewProc(1, 0, 5, 1), NewProc(2, 0, 0, 1)}

	_, err := RunRoundRobin(procs, 2)
	require.ErrorIs(t, err, ErrInvalidConfig)

	assert.Equal(t, Ttick(5), procs[0].Remaining())
	_, ok := procs[0].EndTime()
	assert.False(t, ok)
}

func TestRoundRobin_IdleGapUntilNextArrival(t *testing.T) {
	// nothing has arrived at 0, and proc 2 arrives after proc 1 is long done
	procs := []*Proc{NewProc(1, 2, 3, 1), NewProc(2, 10, 2, 1)}

	sched, err := NewRRSched(2).Run(procs)
	require.NoError(t, err)

	assert.Equal(t, []Slice{{1, 2, 4}, {1, 4, 5}, {2, 10, 12}}, sched.Slices)
	assert.Equal(t, Ttick(2+5), sched.Idle)
	assert.Equal(t, Ttick(5), endTime(t, procs[0]))
	assert.Equal(t, Ttick(12), endTime(t, procs[1]))
	assert.Equal(t, Ttick(0), procs[0].Waiting())
	assert.Equal(t, Ttick(0), procs[1].Waiting())
}

func TestRoundRobin_ReturnsInputOrder(t *testing.T) {
	procs := []*Proc{NewProc(3, 5, 1, 1), NewProc(1, 0, 6, 1), NewProc(2, 1, 1, 1)}

	out, err := RunRoundRobin(procs, 2)
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, []Tid{3, 1, 2}, []Tid{out[0].Id(), out[1].Id(), out[2].Id()})
	assert.Same(t, procs[0], out[0])
}

func TestRoundRobin_StartTimeIsFirstDispatch(t *testing.T) {
	procs := []*Proc{NewProc(1, 0, 4, 1), NewProc(2, 0, 4, 1)}

	_, err := NewRRSched(2).Run(procs)
	require.NoError(t, err)

	start, ok := procs[0].StartTime()
	require.True(t, ok)
	assert.Equal(t, Ttick(0), start)
	start, ok = procs[1].StartTime()
	require.True(t, ok)
	assert.Equal(t, Ttick(2), start)
	resp, _ := procs[1].Response()
	assert.Equal(t, Ttick(2), resp)
}

func TestRoundRobin_VerboseOutput(t *testing.T) {
	var buf bytes.Buffer
	procs := []*Proc{NewProc(1, 1, 2, 1)}

	_, err := NewRRSched(2, WithVerbose(&buf)).Run(procs)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "idle until 1T")
	assert.Contains(t, buf.String(), "ran proc 1 for 2T")
	assert.Contains(t, buf.String(), "proc 1 done, waited 0T")
}

// properties that hold for any batch, checked over fixed pseudo random batches
func TestRoundRobin_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	cfg := DefaultConfig()
	cfg.Arrival = Range{0, 20}

	for run := 0; run < 50; run++ {
		procs := newLoadGen(cfg, r).genLoad(1 + r.Intn(12))
		quantum := Ttick(1 + r.Intn(6))
		orig := CloneProcs(procs)

		sched, err := NewRRSched(quantum).Run(procs)
		require.NoError(t, err)

		executed := map[Tid]Ttick{}
		for _, s := range sched.Slices {
			assert.LessOrEqual(t, s.Len(), quantum)
			assert.Greater(t, s.Len(), Ttick(0))
			executed[s.ProcId] += s.Len()
		}
		for i, s := range sched.Slices {
			if i > 0 {
				assert.GreaterOrEqual(t, s.Start, sched.Slices[i-1].Stop, "slices overlap")
			}
		}

		for i, p := range procs {
			o := orig[i]
			assert.Equal(t, o.Id(), p.Id())
			assert.Equal(t, o.Arrival(), p.Arrival())
			assert.Equal(t, o.Burst(), p.Burst())
			assert.Equal(t, o.Priority(), p.Priority())

			assert.Equal(t, Ttick(0), p.Remaining())
			assert.Equal(t, p.Burst(), executed[p.Id()])
			end := endTime(t, p)
			assert.GreaterOrEqual(t, end, p.Arrival()+p.Burst())
			assert.Equal(t, end-p.Arrival()-p.Burst(), p.Waiting())
			assert.GreaterOrEqual(t, p.Waiting(), Ttick(0))
			start, ok := p.StartTime()
			require.True(t, ok)
			assert.GreaterOrEqual(t, start, p.Arrival())
		}
	}
}

func TestRoundRobin_NonFinalSlicesUseFullQuantum(t *testing.T) {
	procs := []*Proc{NewProc(1, 0, 7, 1), NewProc(2, 0, 5, 1), NewProc(3, 3, 4, 1)}

	sched, err := NewRRSched(3).Run(procs)
	require.NoError(t, err)

	last := map[Tid]int{}
	for i, s := range sched.Slices {
		last[s.ProcId] = i
	}
	for i, s := range sched.Slices {
		if last[s.ProcId] != i {
			assert.Equal(t, Ttick(3), s.Len(), "slice %d of proc %d preempted early", i, s.ProcId)
		}
	}
}

func TestSchedule_ContextSwitches(t *testing.T) {
	sched := &Schedule{Slices: []Slice{{1, 0, 2}, {1, 2, 4}, {2, 4, 5}, {1, 5, 6}}}
	assert.Equal(t, 2, sched.ContextSwitches())
	assert.Equal(t, Ttick(6), sched.Makespan())
}

func TestCheckDone_NegativeWaiting(t *testing.T) {
	p := NewProc(1, 5, 3, 1)
	p.remaining = 0
	p.markDone(6) // would mean it ran 3 ticks within 1

	assert.ErrorIs(t, checkDone(p), ErrInvariantViolation)
}

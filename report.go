package rrsched

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteProcs prints the proc table. Waiting and turnaround show "-" until the
// proc is done.
func WriteProcs(w io.Writer, procs []*Proc) error {
	if _, err := fmt.Fprintf(w, "%5s%15s%15s%10s%15s%17s\n",
		"ID", "Arrival Time", "Burst Time", "Priority", "Waiting Time", "Turnaround Time"); err != nil {
		return err
	}
	for _, p := range procs {
		waiting, turnaround := "-", "-"
		if ta, ok := p.Turnaround(); ok {
			waiting = strconv.Itoa(int(p.waiting))
			turnaround = strconv.Itoa(int(ta))
		}
		if _, err := fmt.Fprintf(w, "%5d%15d%15d%10d%15s%17s\n",
			p.procId, p.arrival, p.burst, p.priority, waiting, turnaround); err != nil {
			return err
		}
	}
	return nil
}

// WriteGantt prints one bar segment per slice, followed by the time axis.
func WriteGantt(w io.Writer, sched *Schedule) error {
	if len(sched.Slices) == 0 {
		_, err := fmt.Fprintln(w, "(empty schedule)")
		return err
	}
	var bar, axis strings.Builder
	bar.WriteString("|")
	axis.WriteString("0")
	prevStop := Ttick(0)
	for _, s := range sched.Slices {
		if s.Start != prevStop {
			cell := fmt.Sprintf(" %s |", "idle")
			bar.WriteString(cell)
			axis.WriteString(pad(strconv.Itoa(int(s.Start)), len(cell)))
		}
		cell := fmt.Sprintf(" P%d |", s.ProcId)
		bar.WriteString(cell)
		axis.WriteString(pad(strconv.Itoa(int(s.Stop)), len(cell)))
		prevStop = s.Stop
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", bar.String(), axis.String())
	return err
}

func pad(label string, width int) string {
	if len(label) >= width {
		return " " + label
	}
	return strings.Repeat(" ", width-len(label)) + label
}

func WriteSummary(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w, "Average waiting time: %.2f\nAverage turnaround time: %.2f\nAverage response time: %.2f\nThroughput: %.3f procs/tick\nCPU utilization: %.1f%%\nContext switches: %d\n",
		s.AvgWaiting, s.AvgTurnaround, s.AvgResponse, s.Throughput, s.Utilization*100, s.ContextSwitches)
	return err
}

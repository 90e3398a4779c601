package rrsched

import "strconv"

const noProc = -1

// ReadyQueue holds indices into a fixed batch, in admission order.
// A batch index is queued at most once; queued tracks membership.
type ReadyQueue struct {
	q      []int
	queued map[int]bool
}

func newReadyQueue(batchSize int) *ReadyQueue {
	return &ReadyQueue{
		q:      make([]int, 0, batchSize),
		queued: make(map[int]bool, batchSize),
	}
}

func (q *ReadyQueue) String() string {
	str := "["
	for i, idx := range q.q {
		if i > 0 {
			str += " "
		}
		str += strconv.Itoa(idx)
	}
	return str + "]"
}

func (q *ReadyQueue) enq(idx int) {
	q.q = append(q.q, idx)
	q.queued[idx] = true
}

func (q *ReadyQueue) deq() int {
	if len(q.q) == 0 {
		return noProc
	}
	idxSelected := q.q[0]
	q.q = q.q[1:]
	delete(q.queued, idxSelected)
	return idxSelected
}

func (q *ReadyQueue) qlen() int {
	return len(q.q)
}

func (q *ReadyQueue) contains(idx int) bool {
	return q.queued[idx]
}

// admitArrived appends every proc that has arrived by currTick, still has work
// left, and is neither queued nor the one currently running. Procs are scanned
// in batch order, so ties on arrival keep their batch order.
// It returns the number of procs admitted.
func (q *ReadyQueue) admitArrived(currTick Ttick, batch []*Proc, running int) int {
	admitted := 0
	for idx, p := range batch {
		if idx == running || q.contains(idx) {
			continue
		}
		if p.arrival <= currTick && p.remaining > 0 {
			q.enq(idx)
			admitted += 1
		}
	}
	return admitted
}

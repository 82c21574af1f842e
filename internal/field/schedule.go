package field

import (
	"container/heap"
	"time"
)

type task struct {
	due time.Duration
	gen uint64
	seq uint64
	run func()
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }
func (q taskQueue) Less(i, j int) bool {
	if q[i].due == q[j].due {
		return q[i].seq < q[j].seq
	}
	return q[i].due < q[j].due
}
func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *taskQueue) Push(x any)   { *q = append(*q, x.(*task)) }
func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// Scheduler queues delayed work on a caller-supplied clock. Every task
// carries the generation it was scheduled under and only runs if that
// generation is still current when it comes due.
type Scheduler struct {
	q   taskQueue
	seq uint64
}

// Schedule queues fn to run once the clock reaches due.
func (s *Scheduler) Schedule(due time.Duration, gen uint64, fn func()) {
	s.seq++
	heap.Push(&s.q, &task{due: due, gen: gen, seq: s.seq, run: fn})
}

// RunDue pops every task due at or before now. Tasks of another
// generation are discarded. Tasks scheduled while RunDue is running wait
// for the next call, even when already due. It returns the number of
// tasks executed.
func (s *Scheduler) RunDue(now time.Duration, gen uint64) int {
	limit := s.seq
	ran := 0
	var later []*task
	for len(s.q) > 0 && s.q[0].due <= now {
		t := heap.Pop(&s.q).(*task)
		if t.seq > limit {
			later = append(later, t)
			continue
		}
		if t.gen != gen {
			continue
		}
		t.run()
		ran++
	}
	for _, t := range later {
		heap.Push(&s.q, t)
	}
	return ran
}

// CancelAll drops every queued task.
func (s *Scheduler) CancelAll() {
	for i := range s.q {
		s.q[i] = nil
	}
	s.q = s.q[:0]
}

func (s *Scheduler) Len() int { return len(s.q) }

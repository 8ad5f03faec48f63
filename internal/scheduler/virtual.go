package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

type task struct {
	due time.Time
	seq uint64
	fn  func()
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*task)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// Virtual is a deterministic scheduler whose clock only moves on Advance
type Virtual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	queue taskQueue
}

// NewVirtual creates a virtual scheduler starting at start
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the current virtual time
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// AfterFunc queues fn to run once virtual time reaches now+d
func (v *Virtual) AfterFunc(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	heap.Push(&v.queue, &task{due: v.now.Add(d), seq: v.seq, fn: fn})
}

// Advance moves virtual time forward by d, running every task that falls due.
// Tasks run on the caller's goroutine in due order, ties in scheduling order,
// with Now() reporting each task's due time while it runs.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		if len(v.queue) == 0 || v.queue[0].due.After(target) {
			v.now = target
			v.mu.Unlock()
			return
		}
		t := heap.Pop(&v.queue).(*task)
		if t.due.After(v.now) {
			v.now = t.due
		}
		v.mu.Unlock()

		t.fn()
	}
}

// Pending returns the number of tasks not yet run
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.queue)
}

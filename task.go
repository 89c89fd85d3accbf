package teleport

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// scheduledTask represents a task scheduled for future execution.
type scheduledTask struct {
	// executeAt is the time the task should execute
	executeAt time.Time

	// task is the task instance with payload
	task Runnable

	// cancelled indicates if the task has been cancelled
	cancelled atomic.Bool

	// index is the heap index
	index int
}

// taskQueue is a priority queue for scheduled tasks.
// It uses a binary heap for O(log n) insertion and removal.
type taskQueue struct {
	mu   sync.Mutex
	heap []*scheduledTask
}

// newTaskQueue creates a new task queue.
func newTaskQueue() *taskQueue {
	return &taskQueue{
		heap: make([]*scheduledTask, 0, 8),
	}
}

// compactHeap removes cancelled tasks from the heap and rebuilds the heap property.
func (q *taskQueue) compactHeap() {
	write := 0
	for read := 0; read < len(q.heap); read++ {
		if !q.heap[read].cancelled.Load() {
			q.heap[write] = q.heap[read]
			q.heap[write].index = write
			write++
		}
	}

	for i := write; i < len(q.heap); i++ {
		q.heap[i] = nil
	}
	q.heap = q.heap[:write]

	for i := len(q.heap)/2 - 1; i >= 0; i-- {
		q.down(i, len(q.heap))
	}
}

// Push adds a task to the queue.
func (q *taskQueue) Push(task *scheduledTask) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) > 64 && len(q.heap)%64 == 0 {
		q.compactHeap()
	}

	task.index = len(q.heap)
	q.heap = append(q.heap, task)
	q.up(task.index)
}

// PopDue removes and returns all live tasks that are due (executeAt <= now),
// in execution order. Cancelled tasks encountered on the way are dropped.
func (q *taskQueue) PopDue(now time.Time) []*scheduledTask {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []*scheduledTask
	for len(q.heap) > 0 && !q.heap[0].executeAt.After(now) {
		task := q.pop()
		if !task.cancelled.Load() {
			due = append(due, task)
		}
	}
	return due
}

// Peek returns the next due time without removing.
func (q *taskQueue) Peek() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) == 0 {
		return time.Time{}, false
	}
	return q.heap[0].executeAt, true
}

// Len returns the number of live tasks in the queue.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, task := range q.heap {
		if !task.cancelled.Load() {
			n++
		}
	}
	return n
}

// Clear cancels and removes all tasks from the queue.
func (q *taskQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, task := range q.heap {
		task.cancelled.Store(true)
		q.heap[i] = nil
	}
	q.heap = q.heap[:0]
}

// pop removes and returns the minimum task. Caller must hold lock.
func (q *taskQueue) pop() *scheduledTask {
	n := len(q.heap) - 1
	q.swap(0, n)
	q.down(0, n)
	task := q.heap[n]
	q.heap[n] = nil // Allow GC
	q.heap = q.heap[:n]
	task.index = -1
	return task
}

// up moves task at index up the heap.
func (q *taskQueue) up(i int) {
	for {
		parent := (i - 1) / 2
		if parent == i || !q.heap[i].executeAt.Before(q.heap[parent].executeAt) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

// down moves task at index down the heap.
func (q *taskQueue) down(i, n int) {
	for {
		left := 2*i + 1
		if left >= n || left < 0 {
			break
		}
		j := left
		if right := left + 1; right < n && q.heap[right].executeAt.Before(q.heap[left].executeAt) {
			j = right
		}
		if !q.heap[j].executeAt.Before(q.heap[i].executeAt) {
			break
		}
		q.swap(i, j)
		i = j
	}
}

// swap swaps two tasks in the heap.
func (q *taskQueue) swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.heap[i].index = i
	q.heap[j].index = j
}

// TaskHandle allows cancelling a scheduled task.
type TaskHandle struct {
	task *scheduledTask
}

// Cancel cancels the scheduled task. Cancelling a task that already ran is a
// no-op.
func (h *TaskHandle) Cancel() {
	if h != nil && h.task != nil {
		h.task.cancelled.Store(true)
	}
}

// Cancelled reports whether the task was cancelled.
func (h *TaskHandle) Cancelled() bool {
	return h != nil && h.task != nil && h.task.cancelled.Load()
}

// Scheduler runs one-shot tasks keyed by a monotonic clock.
// It never spawns goroutines: due tasks run synchronously inside RunDue, on
// the caller's frame thread.
type Scheduler struct {
	clock Clock
	queue *taskQueue
	log   *slog.Logger
}

// NewScheduler creates a scheduler reading the given clock. A nil clock
// uses SystemClock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{
		clock: clock,
		queue: newTaskQueue(),
		log:   slog.Default(),
	}
}

// SetLogger sets the logger used to report panicking tasks.
func (s *Scheduler) SetLogger(log *slog.Logger) {
	if log != nil {
		s.log = log
	}
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// Schedule schedules a task for execution after the given delay.
// Returns a TaskHandle that can be used to cancel the task.
func (s *Scheduler) Schedule(task Runnable, delay time.Duration) *TaskHandle {
	return s.ScheduleAt(task, s.clock.Now().Add(delay))
}

// ScheduleFunc schedules fn for execution after the given delay.
func (s *Scheduler) ScheduleFunc(fn func(), delay time.Duration) *TaskHandle {
	return s.Schedule(RunnableFunc(fn), delay)
}

// ScheduleAt schedules a task for execution at a specific time.
// If the time is in the past, the task will execute on the next RunDue.
func (s *Scheduler) ScheduleAt(task Runnable, at time.Time) *TaskHandle {
	if task == nil {
		return nil
	}

	scheduled := &scheduledTask{
		executeAt: at,
		task:      task,
	}
	s.queue.Push(scheduled)

	return &TaskHandle{task: scheduled}
}

// RunDue executes every task due at the clock's current time and returns
// how many ran. Tasks scheduled by a running task with no delay run on the
// next call, not this one.
func (s *Scheduler) RunDue() int {
	due := s.queue.PopDue(s.clock.Now())
	ran := 0
	for _, task := range due {
		if task.cancelled.Load() {
			continue
		}
		s.execute(task)
		ran++
	}
	return ran
}

// Next returns when the earliest pending task is due.
func (s *Scheduler) Next() (time.Time, bool) {
	return s.queue.Peek()
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	return s.queue.Len()
}

// Clear cancels every pending task.
func (s *Scheduler) Clear() {
	s.queue.Clear()
}

// execute runs a single task with panic recovery.
func (s *Scheduler) execute(task *scheduledTask) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("teleport: panic in task %T: %v", task.task, r)
			s.log.Error(err.Error(), "stack", string(debug.Stack()))
		}
	}()
	task.task.Run()
}

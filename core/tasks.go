package core

import (
	"context"
	"sync"
)

// TaskHandle identifies one deferred computation in a TaskQueue for
// its whole lifetime. The task namespace starts at 0 and is
// independent of the asset registry's handle namespace.
type TaskHandle uint64

// Computation is a deferred unit of work. It may block internally,
// file io included, the queue itself never blocks its callers.
// Failures are carried inside the returned payload, the queue does
// not inspect results.
type Computation func(ctx context.Context) interface{}

// TaskStatus tracks a computation from push through completion.
// The progression is TaskNotPolled, TaskPolling, TaskCompleted,
// completed is terminal.
type TaskStatus int

// Task lifecycle states
const (
	TaskNotPolled TaskStatus = iota
	TaskPolling
	TaskCompleted
)

func (s TaskStatus) String() string {
	switch s {
	case TaskNotPolled:
		return "not polled"
	case TaskPolling:
		return "polling"
	case TaskCompleted:
		return "completed"
	}
	return "invalid"
}

// taskEntry is the per-handle state. The buffered channel is the
// transport for the single result, the status slot is the authority
// once a result has been observed through either path.
type taskEntry struct {
	mu      sync.Mutex
	status  TaskStatus
	result  interface{}
	results chan interface{}
}

func (e *taskEntry) complete(result interface{}) {
	e.results <- result
	e.mu.Lock()
	e.status = TaskCompleted
	e.result = result
	e.mu.Unlock()
}

type queuedTask struct {
	id  TaskHandle
	run func(ctx context.Context)
}

// TaskQueue runs caller supplied computations without blocking the
// caller. Work only starts when Poll is called, results are fetched
// by handle with Exchange once ready. All methods are safe for use
// from multiple goroutines, concurrently with each other and with
// Poll.
type TaskQueue struct {
	mu      sync.Mutex
	queued  []queuedTask
	entries map[TaskHandle]*taskEntry
	nextID  uint64
}

// NewTaskQueue creates an empty TaskQueue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{
		entries: make(map[TaskHandle]*taskEntry),
	}
}

// Push enqueues a computation and returns its handle immediately.
// The computation does not start until the next Poll. Completion both
// sends the result on the entry's channel and writes it into the
// status slot, a caller may query status before or after consuming
// the channel.
func (q *TaskQueue) Push(fn Computation) TaskHandle {
	entry := &taskEntry{
		status:  TaskNotPolled,
		results: make(chan interface{}, 1),
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	id := TaskHandle(q.nextID)
	q.nextID++
	q.entries[id] = entry
	q.queued = append(q.queued, queuedTask{
		id: id,
		run: func(ctx context.Context) {
			entry.complete(fn(ctx))
		},
	})
	return id
}

// Poll drains every computation queued so far, marks each one polling
// and starts each on its own goroutine. It returns once all drained
// work is handed off, it does not wait for completion. Computations
// pushed while a Poll runs are left for the next one. Typically called
// once per frame.
func (q *TaskQueue) Poll(ctx context.Context) {
	q.mu.Lock()
	drained := q.queued
	q.queued = nil
	for _, t := range drained {
		if entry, ok := q.entries[t.id]; ok {
			entry.mu.Lock()
			if entry.status == TaskNotPolled {
				entry.status = TaskPolling
			}
			entry.mu.Unlock()
		}
	}
	q.mu.Unlock()

	for _, t := range drained {
		go t.run(ctx)
	}
}

// Exchange returns the result of a completed computation. It never
// blocks: an unknown handle or a computation that has not finished
// yields (nil, false). Once a result has been returned it stays
// available, repeated exchanges return the same shared value.
func (q *TaskQueue) Exchange(h TaskHandle) (interface{}, bool) {
	q.mu.Lock()
	entry, ok := q.entries[h]
	q.mu.Unlock()
	if !ok {
		return nil, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.status == TaskCompleted {
		return entry.result, true
	}
	select {
	case result := <-entry.results:
		entry.status = TaskCompleted
		entry.result = result
		return result, true
	default:
		return nil, false
	}
}

// ExchangeAs exchanges a handle and narrows the result to T. Both an
// unfinished computation and a result of the wrong type yield
// (zero, false), a type mismatch is silent.
func ExchangeAs[T any](q *TaskQueue, h TaskHandle) (T, bool) {
	var zero T
	result, ok := q.Exchange(h)
	if !ok {
		return zero, false
	}
	typed, ok := result.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Handle returns the handle for a raw id if the queue still tracks it.
func (q *TaskQueue) Handle(id uint64) (TaskHandle, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	h := TaskHandle(id)
	if _, ok := q.entries[h]; ok {
		return h, true
	}
	return 0, false
}

// Status returns the current status of a tracked handle.
func (q *TaskQueue) Status(h TaskHandle) (TaskStatus, bool) {
	q.mu.Lock()
	entry, ok := q.entries[h]
	q.mu.Unlock()
	if !ok {
		return TaskNotPolled, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.status, true
}

// Cleanup removes every completed entry from the queue. Entries that
// never complete are kept forever, reclaiming them is an explicit
// caller decision. Safe to call when nothing has completed.
func (q *TaskQueue) Cleanup() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, entry := range q.entries {
		entry.mu.Lock()
		completed := entry.status == TaskCompleted
		entry.mu.Unlock()
		if completed {
			delete(q.entries, id)
		}
	}
}

// Len returns the number of live entries, completed ones included
// until Cleanup runs.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

package memory

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haasonsaas/orchestrator/internal/infra"
)

// TaskKind is the closed set of background memory tasks the queue accepts.
type TaskKind string

const (
	TaskMemoryExtraction      TaskKind = "memory_extraction"
	TaskMemoryConsolidation   TaskKind = "memory_consolidation"
	TaskRelationshipDiscovery TaskKind = "relationship_discovery"
)

// Priority tiers for the three task kinds; smaller runs first. Extraction
// keeps the conversation's own turn data fresh, relationship discovery and
// consolidation are pure housekeeping and can wait behind it.
const (
	PriorityExtraction    = 0
	PriorityRelationship  = 5
	PriorityConsolidation = 10
)

// TaskStatus mirrors internal/jobs.Status's naming for the same queued/
// running/succeeded/failed lifecycle, applied here to background memory
// tasks instead of tool-call jobs.
type TaskStatus string

const (
	TaskQueued    TaskStatus = "queued"
	TaskRunning   TaskStatus = "running"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
)

// TaskResult is the TTL'd record of a background task's outcome.
type TaskResult struct {
	ID         string
	Kind       TaskKind
	Status     TaskStatus
	Attempts   int
	Err        string
	EnqueuedAt time.Time
	FinishedAt time.Time
}

type queuedTask struct {
	id       string
	kind     TaskKind
	priority int
	enqueued time.Time
	run      func(context.Context) error
	index    int
}

// taskHeap is a container/heap.Interface ordered by priority, then by
// arrival time among equal priorities — the ordering spec.md §4.6's
// background processing queue calls for. Neither the teacher nor the rest
// of the example pack carries a priority-queue type, so this one piece
// is built on the standard library rather than adapted from a dependency.
type taskHeap []*queuedTask

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].enqueued.Before(h[j].enqueued)
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*queuedTask)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// QueueConfig configures a BackgroundQueue.
type QueueConfig struct {
	// Concurrency caps how many tasks run at once. Default 5, matching
	// spec.md §5's backpressure default for the memory queue.
	Concurrency int
	// RetryBudget is the total attempts (including the first) per task
	// before it is recorded as failed. Default 3.
	RetryBudget int
	// ResultTTL controls how long a finished task's result is kept.
	// Default 1h, matching spec.md §4.6.
	ResultTTL time.Duration
}

// BackgroundQueue is the priority queue spec.md §4.6/§5 describes for
// memory extraction, consolidation, and relationship discovery: a
// priority heap drained by a worker pool bounded by a semaphore, each
// task retried with exponential backoff, results kept under a TTL so
// the bookkeeping doesn't grow without bound. Queue depth and in-flight
// count are exactly infra.Semaphore's job; the retry budget is
// infra.Retry's.
type BackgroundQueue struct {
	mu        sync.Mutex
	heap      taskHeap
	results   map[string]*TaskResult
	resultTTL time.Duration
	closed    bool
	closeCh   chan struct{}
	wake      chan struct{}

	sem   *infra.Semaphore
	retry *infra.RetryConfig
}

// NewBackgroundQueue starts a BackgroundQueue with its drain and result-sweep
// goroutines running. Call Close to stop both.
func NewBackgroundQueue(cfg QueueConfig) *BackgroundQueue {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.RetryBudget <= 0 {
		cfg.RetryBudget = 3
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = time.Hour
	}

	q := &BackgroundQueue{
		results:   make(map[string]*TaskResult),
		resultTTL: cfg.ResultTTL,
		closeCh:   make(chan struct{}),
		wake:      make(chan struct{}, 1),
		sem:       infra.NewSemaphore(int64(cfg.Concurrency)),
		retry: &infra.RetryConfig{
			MaxAttempts:    cfg.RetryBudget - 1,
			InitialDelay:   200 * time.Millisecond,
			MaxDelay:       10 * time.Second,
			Strategy:       infra.BackoffExponential,
			JitterFraction: 0.1,
		},
	}
	heap.Init(&q.heap)
	go q.drain()
	go q.sweepResults()
	return q
}

// Enqueue adds a task of the given kind and priority to the queue and
// returns its task id. fn runs with the queue's retry budget; a nil queue
// or fn is a no-op that returns "".
func (q *BackgroundQueue) Enqueue(kind TaskKind, priority int, fn func(context.Context) error) string {
	if q == nil || fn == nil {
		return ""
	}

	id := uuid.NewString()
	now := time.Now()

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ""
	}
	heap.Push(&q.heap, &queuedTask{id: id, kind: kind, priority: priority, enqueued: now, run: fn})
	q.results[id] = &TaskResult{ID: id, Kind: kind, Status: TaskQueued, EnqueuedAt: now}
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return id
}

// Depth returns the number of tasks still waiting for a worker slot (not
// counting tasks already running).
func (q *BackgroundQueue) Depth() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// Result returns the current record for a task id, if the queue still
// remembers it (it may have expired under the result TTL).
func (q *BackgroundQueue) Result(id string) (TaskResult, bool) {
	if q == nil {
		return TaskResult{}, false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	r, ok := q.results[id]
	if !ok {
		return TaskResult{}, false
	}
	return *r, true
}

// Close stops the drain and sweep goroutines. Tasks already running are
// allowed to finish; queued-but-not-started tasks are dropped.
func (q *BackgroundQueue) Close() {
	if q == nil {
		return
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	close(q.closeCh)
}

func (q *BackgroundQueue) drain() {
	ctx := context.Background()
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return
		}
		if len(q.heap) == 0 {
			q.mu.Unlock()
			select {
			case <-q.wake:
				continue
			case <-q.closeCh:
				return
			}
		}
		task := heap.Pop(&q.heap).(*queuedTask)
		if r := q.results[task.id]; r != nil {
			r.Status = TaskRunning
		}
		q.mu.Unlock()

		if err := q.sem.Acquire(ctx, 1); err != nil {
			return
		}
		go q.execute(ctx, task)
	}
}

func (q *BackgroundQueue) execute(ctx context.Context, task *queuedTask) {
	defer q.sem.Release(1)

	_, result := infra.Retry(ctx, q.retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, task.run(ctx)
	})

	q.mu.Lock()
	defer q.mu.Unlock()
	r, ok := q.results[task.id]
	if !ok {
		return
	}
	r.Attempts = result.Attempts
	r.FinishedAt = time.Now()
	if result.LastError != nil {
		r.Status = TaskFailed
		r.Err = result.LastError.Error()
	} else {
		r.Status = TaskSucceeded
	}
}

func (q *BackgroundQueue) sweepResults() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			q.mu.Lock()
			now := time.Now()
			for id, r := range q.results {
				if r.Status != TaskSucceeded && r.Status != TaskFailed {
					continue
				}
				if now.Sub(r.FinishedAt) > q.resultTTL {
					delete(q.results, id)
				}
			}
			q.mu.Unlock()
		case <-q.closeCh:
			return
		}
	}
}

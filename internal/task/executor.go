// Package task implements the concurrent feedback generation pipeline: a
// bounded-concurrency executor, the LLM-backed task definitions, and the
// orchestrator that fans one essay submission out into independent tasks and
// reduces their outcomes into a single persisted feedback record.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Executor errors.
var (
	// ErrInvalidConcurrency is returned when the concurrency limit is below 1.
	ErrInvalidConcurrency = errors.New("task: max concurrency must be at least 1")

	// ErrDuplicateTaskID is returned when two tasks are registered under the
	// same ID. IDs are the keys results are collected by, so a collision is a
	// caller bug.
	ErrDuplicateTaskID = errors.New("task: duplicate task ID")

	// ErrAlreadyExecuted is returned when an executor is reused. Executors
	// are built fresh per orchestration run.
	ErrAlreadyExecuted = errors.New("task: executor has already run")
)

// Func is one unit of work. It returns its typed result or an error; it must
// not mutate shared orchestration state.
type Func func(ctx context.Context) (any, error)

type queuedTask struct {
	id string
	fn Func
}

// Stats is a snapshot of an executor run.
type Stats struct {
	Total     int
	Completed int
	Failed    int
}

// Executor runs registered tasks with at most maxConcurrency in flight at
// once. Each task's outcome is recorded independently; one task's failure
// never stops the others. Results and errors are written only by the
// scheduling loop and read only after ExecuteAll returns, so they need no
// locking.
type Executor struct {
	maxConcurrency int
	logger         *slog.Logger

	queue    []queuedTask
	ids      map[string]struct{}
	results  map[string]any
	errs     map[string]error
	executed bool

	stats Stats

	// onSettled, if set before ExecuteAll, is invoked from the scheduling
	// loop after each task settles.
	onSettled func(completed, total int)
}

// NewExecutor creates an executor with the given concurrency limit.
// Returns ErrInvalidConcurrency if maxConcurrency < 1.
func NewExecutor(maxConcurrency int, logger *slog.Logger) (*Executor, error) {
	if maxConcurrency < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, maxConcurrency)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		maxConcurrency: maxConcurrency,
		logger:         logger.With(slog.String("component", "task_executor")),
		ids:            make(map[string]struct{}),
		results:        make(map[string]any),
		errs:           make(map[string]error),
	}, nil
}

// AddTask registers fn under a stable ID before execution starts.
func (e *Executor) AddTask(id string, fn Func) error {
	if e.executed {
		return ErrAlreadyExecuted
	}
	if _, exists := e.ids[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTaskID, id)
	}

	e.ids[id] = struct{}{}
	e.queue = append(e.queue, queuedTask{id: id, fn: fn})
	return nil
}

// OnSettled registers a callback invoked after each task settles, with the
// count of settled tasks and the total. Must be set before ExecuteAll.
func (e *Executor) OnSettled(fn func(completed, total int)) {
	e.onSettled = fn
}

type outcome struct {
	id     string
	result any
	err    error
}

// ExecuteAll drains the queue, keeping at most maxConcurrency tasks in
// flight. Individual task failures are recorded, never propagated; the only
// errors ExecuteAll itself returns are misuse of the executor.
func (e *Executor) ExecuteAll(ctx context.Context) error {
	if e.executed {
		return ErrAlreadyExecuted
	}
	e.executed = true
	e.stats.Total = len(e.queue)

	if len(e.queue) == 0 {
		return nil
	}

	// Fan-in: every task posts its outcome here; the loop below is the sole
	// reader and the sole writer of the result maps.
	settled := make(chan outcome)
	next := 0
	inFlight := 0

	start := func(t queuedTask) {
		go func() {
			defer func() {
				if p := recover(); p != nil {
					settled <- outcome{id: t.id, err: fmt.Errorf("task %s panicked: %v", t.id, p)}
				}
			}()
			result, err := t.fn(ctx)
			settled <- outcome{id: t.id, result: result, err: err}
		}()
	}

	for next < len(e.queue) || inFlight > 0 {
		for inFlight < e.maxConcurrency && next < len(e.queue) {
			start(e.queue[next])
			next++
			inFlight++
		}

		out := <-settled
		inFlight--

		if out.err != nil {
			e.errs[out.id] = out.err
			e.stats.Failed++
			e.logger.Warn("task failed",
				slog.String("task_id", out.id),
				slog.String("error", out.err.Error()))
		} else {
			e.results[out.id] = out.result
		}
		e.stats.Completed++

		if e.onSettled != nil {
			e.onSettled(e.stats.Completed, e.stats.Total)
		}
	}

	e.logger.Debug("all tasks settled",
		slog.Int("total", e.stats.Total),
		slog.Int("failed", e.stats.Failed))
	return nil
}

// Result returns the result recorded for id, if the task succeeded.
// Only meaningful after ExecuteAll returns.
func (e *Executor) Result(id string) (any, bool) {
	result, ok := e.results[id]
	return result, ok
}

// Err returns the error recorded for id, if the task failed.
// Only meaningful after ExecuteAll returns.
func (e *Executor) Err(id string) error {
	return e.errs[id]
}

// Stats returns the run's counters.
func (e *Executor) Stats() Stats {
	return e.stats
}

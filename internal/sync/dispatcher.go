package sync

import (
	"context"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/nhle/kaneo-sync/internal/model"
)

// SyncState represents the sync state of a single task.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus holds the last known sync state of a task.
type SyncStatus struct {
	TaskID    string
	State     SyncState
	LastEvent string
	LastSync  time.Time
	Error     error
}

// Handler processes lifecycle events. *Synchronizer implements it.
type Handler interface {
	OnTaskCreated(ctx context.Context, task model.Task) *Report
	OnTaskStatusChanged(ctx context.Context, taskID, oldStatus, newStatus string) *Report
	OnTaskPriorityChanged(ctx context.Context, taskID, oldPriority, newPriority string) *Report
}

// defaultHandlerTimeout bounds one handler invocation.
const defaultHandlerTimeout = 60 * time.Second

// job is one queued lifecycle event.
type job struct {
	event string
	run   func(ctx context.Context) *Report
}

// Dispatcher runs lifecycle handlers in the background so the task
// mutation that fired an event never waits on GitHub. Events for the
// same task run one at a time in submission order; different tasks run
// in parallel.
type Dispatcher struct {
	handler Handler
	timeout time.Duration
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       gosync.Mutex
	queues   map[string][]job
	statuses map[string]*SyncStatus
	stopped  bool
	wg       gosync.WaitGroup

	resultCh chan *Report
}

// NewDispatcher creates a Dispatcher. A non-positive timeout uses the
// default of 60s.
func NewDispatcher(h Handler, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		handler:  h,
		timeout:  timeout,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		queues:   make(map[string][]job),
		statuses: make(map[string]*SyncStatus),
		resultCh: make(chan *Report, 64),
	}
}

// TaskCreated queues OnTaskCreated. It reports false once the
// dispatcher is stopped.
func (d *Dispatcher) TaskCreated(task model.Task) bool {
	return d.enqueue(task.ID, job{
		event: EventTaskCreated,
		run: func(ctx context.Context) *Report {
			return d.handler.OnTaskCreated(ctx, task)
		},
	})
}

// StatusChanged queues OnTaskStatusChanged.
func (d *Dispatcher) StatusChanged(taskID, oldStatus, newStatus string) bool {
	return d.enqueue(taskID, job{
		event: EventStatusChanged,
		run: func(ctx context.Context) *Report {
			return d.handler.OnTaskStatusChanged(ctx, taskID, oldStatus, newStatus)
		},
	})
}

// PriorityChanged queues OnTaskPriorityChanged.
func (d *Dispatcher) PriorityChanged(taskID, oldPriority, newPriority string) bool {
	return d.enqueue(taskID, job{
		event: EventPriorityChanged,
		run: func(ctx context.Context) *Report {
			return d.handler.OnTaskPriorityChanged(ctx, taskID, oldPriority, newPriority)
		},
	})
}

// Results returns a channel of finished reports. Reports are dropped
// when nobody drains the channel.
func (d *Dispatcher) Results() <-chan *Report {
	return d.resultCh
}

// Statuses returns the sync status of tasks that are queued, running, or
// whose last event failed. A task drops out once its queue drains
// cleanly.
func (d *Dispatcher) Statuses() []SyncStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	statuses := make([]SyncStatus, 0, len(d.statuses))
	for _, s := range d.statuses {
		statuses = append(statuses, *s)
	}
	return statuses
}

// Wait blocks until every queued event has been handled.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Stop rejects new events, waits for queued ones to finish, and then
// releases the dispatcher's context. Events still running when ctx is
// done are cancelled.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) enqueue(taskID string, j job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		d.logger.Warn("dropping event after stop", "task_id", taskID, "event", j.event)
		return false
	}

	queue, running := d.queues[taskID]
	d.queues[taskID] = append(queue, j)
	if !running {
		d.wg.Add(1)
		go d.drain(taskID)
	}
	return true
}

// drain runs a task's queued events until its queue is empty.
func (d *Dispatcher) drain(taskID string) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		queue := d.queues[taskID]
		if len(queue) == 0 {
			delete(d.queues, taskID)
			if st, ok := d.statuses[taskID]; ok && st.State == SyncIdle {
				delete(d.statuses, taskID)
			}
			d.mu.Unlock()
			return
		}
		j := queue[0]
		d.queues[taskID] = queue[1:]
		d.mu.Unlock()

		d.handle(taskID, j)
	}
}

func (d *Dispatcher) handle(taskID string, j job) {
	d.setStatus(taskID, j.event, SyncRunning, nil)

	ctx, cancel := context.WithTimeout(d.ctx, d.timeout)
	defer cancel()

	report := d.runJob(ctx, taskID, j)

	err := report.Err()
	if err != nil {
		d.setStatus(taskID, j.event, SyncError, err)
	} else {
		d.setStatus(taskID, j.event, SyncIdle, nil)
	}
	d.sendResult(report)
}

// runJob isolates handler panics so one bad event cannot take down the
// caller's process.
func (d *Dispatcher) runJob(ctx context.Context, taskID string, j job) (report *Report) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("sync handler panicked", "task_id", taskID, "event", j.event, "panic", r)
			report = newReport(j.event, taskID)
			report.Outcomes = append(report.Outcomes, Outcome{
				Step: j.event,
				Kind: OutcomeRemoteFailed,
				Err:  fmt.Errorf("panic: %v", r),
			})
		}
	}()

	report = j.run(ctx)
	if report == nil {
		report = newReport(j.event, taskID)
	}
	return report
}

// setStatus updates the sync status of a task.
func (d *Dispatcher) setStatus(taskID, event string, state SyncState, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	status, ok := d.statuses[taskID]
	if !ok {
		status = &SyncStatus{TaskID: taskID}
		d.statuses[taskID] = status
	}

	status.State = state
	status.LastEvent = event
	status.Error = err
	if state != SyncRunning {
		status.LastSync = time.Now()
	}
}

// sendResult sends a report on the result channel without blocking.
func (d *Dispatcher) sendResult(report *Report) {
	select {
	case d.resultCh <- report:
	default:
		// Drop if channel is full to avoid blocking the worker
	}
}

// Package notification buffers attendance lifecycle events behind a small
// worker so event emission never blocks the reconciliation loop. Delivery to
// actual recipients is handled outside this service; the worker logs each
// event as the integration point.
package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/workforcehq/attendance-bridge/internal/domain/notification"
)

type Config struct {
	QueueSize   int // default: 1000
	WorkerCount int // default: 2
}

type service struct {
	queue chan notification.Event
	wg    sync.WaitGroup

	stopOnce sync.Once
}

// NewService starts the background workers and returns the event sink.
func NewService(cfg Config) notification.Service {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}

	s := &service{
		queue: make(chan notification.Event, cfg.QueueSize),
	}
	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker()
	}

	slog.Info("notification service started",
		slog.Int("workers", cfg.WorkerCount),
		slog.Int("queue_size", cfg.QueueSize))
	return s
}

// Publish enqueues an event without blocking. Events are dropped when the
// queue is full; attendance rows are the source of truth, so a dropped event
// loses a signal, not data.
func (s *service) Publish(_ context.Context, event notification.Event) {
	select {
	case s.queue <- event:
	default:
		slog.Warn("notification queue full, dropping event",
			slog.String("type", string(event.Type)),
			slog.String("attendance_id", event.AttendanceID))
	}
}

// Stop drains the queue and waits for the workers to finish.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
}

func (s *service) worker() {
	defer s.wg.Done()
	for event := range s.queue {
		statuses := make([]string, len(event.Statuses))
		for i, st := range event.Statuses {
			statuses[i] = string(st)
		}
		slog.Info("attendance event",
			slog.String("type", string(event.Type)),
			slog.String("attendance_id", event.AttendanceID),
			slog.String("employee_id", event.EmployeeID),
			slog.Any("statuses", statuses),
			slog.Time("occurred_at", event.OccurredAt))
	}
}

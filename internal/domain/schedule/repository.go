package schedule

import (
	"context"
	"time"
)

type ScheduleRepository interface {
	// GetByEmployeeAndDate retrieves the employee's schedule for one calendar
	// date, with its shift and optional holiday preloaded.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Schedule, error)

	// ListByDate retrieves every schedule for one calendar date. Used by the
	// day-close job to find employees who never punched in.
	ListByDate(ctx context.Context, date time.Time) ([]Schedule, error)
}

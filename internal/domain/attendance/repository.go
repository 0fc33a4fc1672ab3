package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByEmployeeAndDate retrieves the attendance row for one employee on
	// one calendar day. Returns (nil, nil) when no row exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	Update(ctx context.Context, attendance Attendance) error

	// ListOpenByDate retrieves every still-open attendance for one calendar
	// day. Used by the day-close job.
	ListOpenByDate(ctx context.Context, date time.Time) ([]Attendance, error)
}

// PunchRepository persists the immutable punch audit trail.
type PunchRepository interface {
	Create(ctx context.Context, punch Punch) (Punch, error)
}

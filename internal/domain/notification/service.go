package notification

import (
	"context"
	"time"

	"github.com/workforcehq/attendance-bridge/internal/domain/attendance"
)

type EventType string

const (
	EventAttendanceOpened EventType = "attendance.opened"
	EventAttendanceClosed EventType = "attendance.closed"
)

// Event is the outbound contract toward downstream consumers (payroll,
// push/websocket fan-out). Delivery itself is an external collaborator; this
// package only defines the callback surface.
type Event struct {
	Type         EventType
	AttendanceID string
	EmployeeID   string
	Statuses     []attendance.Status
	OccurredAt   time.Time
}

// Service receives attendance lifecycle events. Implementations must not
// block the reconciliation loop.
type Service interface {
	Publish(ctx context.Context, event Event)
	Stop()
}

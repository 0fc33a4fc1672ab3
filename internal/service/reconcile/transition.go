package reconcile

import (
	"time"

	"github.com/workforcehq/attendance-bridge/internal/domain/attendance"
	domainpolicy "github.com/workforcehq/attendance-bridge/internal/domain/policy"
	"github.com/workforcehq/attendance-bridge/internal/service/policy"
)

// checkoutOvertimeAfter is the fixed trigger for flagging overtime on
// checkout. Deliberately not sourced from OvertimeThresholdMinutes to stay
// compatible with existing deployments; the configured rounding still applies
// to the reported minutes.
const checkoutOvertimeAfter = 30 * time.Minute

// ShiftWindow is the absolute shift-start/shift-end pair for one employee-day.
type ShiftWindow struct {
	Start time.Time
	End   time.Time
}

// Action is what the reconciler must do with a punch.
type Action int

const (
	// ActionOpenDay creates a new attendance with the punch as check-in.
	ActionOpenDay Action = iota
	// ActionCloseDay sets the punch as check-out on the open attendance.
	ActionCloseDay
	// ActionRecordOnly stores the punch audit row and nothing else; the day
	// is already closed and closure is terminal.
	ActionRecordOnly
)

// Outcome is the decision for one punch.
type Outcome struct {
	Action           Action
	Statuses         []attendance.Status
	LateMinutes      *int
	UnderTimeMinutes *int
	OvertimeMinutes  *int
}

// Apply decides how one punch transitions the employee-day state machine
// (NONE -> OPEN -> CLOSED). Pure: no I/O, no clock reads.
func Apply(current *attendance.Attendance, punchTime time.Time, window ShiftWindow, holiday bool, cfg domainpolicy.AttendanceConfiguration) Outcome {
	if current == nil {
		return openDay(punchTime, window, holiday, cfg)
	}
	if current.State() == attendance.StateClosed {
		return Outcome{Action: ActionRecordOnly}
	}
	return closeDay(punchTime, window, cfg)
}

func openDay(punchTime time.Time, window ShiftWindow, holiday bool, cfg domainpolicy.AttendanceConfiguration) Outcome {
	// Holiday work is always overtime; the late check does not apply.
	if holiday {
		return Outcome{
			Action:   ActionOpenDay,
			Statuses: []attendance.Status{attendance.StatusOvertime},
		}
	}

	out := Outcome{
		Action:   ActionOpenDay,
		Statuses: []attendance.Status{attendance.StatusDefault},
	}
	if punchTime.After(window.Start) {
		delta := int(punchTime.Sub(window.Start).Minutes())
		if res := policy.Evaluate(policy.DeviationLate, delta, cfg); res.Violated {
			out.Statuses = []attendance.Status{attendance.StatusLate}
			out.LateMinutes = &res.ReportedMinutes
		}
	}
	return out
}

func closeDay(punchTime time.Time, window ShiftWindow, cfg domainpolicy.AttendanceConfiguration) Outcome {
	out := Outcome{Action: ActionCloseDay}

	if punchTime.Before(window.End) {
		delta := int(window.End.Sub(punchTime).Minutes())
		if res := policy.Evaluate(policy.DeviationUnderTime, delta, cfg); res.Violated {
			out.Statuses = append(out.Statuses, attendance.StatusUnderTime)
			out.UnderTimeMinutes = &res.ReportedMinutes
		}
	} else if punchTime.Sub(window.End) > checkoutOvertimeAfter && cfg.AllowOvertime {
		delta := int(punchTime.Sub(window.End).Minutes())
		reported := policy.Round(policy.DeviationOvertime, delta, cfg)
		out.Statuses = append(out.Statuses, attendance.StatusOvertime)
		out.OvertimeMinutes = &reported
	}

	if len(out.Statuses) == 0 {
		out.Statuses = []attendance.Status{attendance.StatusDefault}
	}
	return out
}

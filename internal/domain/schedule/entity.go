package schedule

import "time"

// Shift is the weekly recurring work-time template. StartTime and EndTime
// carry only the clock component; the date part is ignored.
type Shift struct {
	ID             string
	OrganizationID string
	Name           string
	StartTime      time.Time
	EndTime        time.Time
	Weekdays       []int // 1=Monday ... 7=Sunday
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Schedule assigns one employee to a shift on one concrete date, optionally
// overriding the shift's clock times and optionally marking a holiday.
// Schedules are produced by the schedule-generation batch and are read-only
// from the reconciliation engine's perspective.
type Schedule struct {
	ID          string
	EmployeeID  string
	ShiftID     string
	Date        time.Time
	StartTime   *time.Time // override, nil = shift default
	EndTime     *time.Time
	HolidayID   *string
	HolidayName *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Shift Shift
}

// IsHoliday reports whether this schedule falls on a linked holiday.
func (s Schedule) IsHoliday() bool {
	return s.HolidayID != nil
}

// EffectiveStart returns the override start time if present, else the shift
// default.
func (s Schedule) EffectiveStart() time.Time {
	if s.StartTime != nil {
		return *s.StartTime
	}
	return s.Shift.StartTime
}

// EffectiveEnd returns the override end time if present, else the shift
// default.
func (s Schedule) EffectiveEnd() time.Time {
	if s.EndTime != nil {
		return *s.EndTime
	}
	return s.Shift.EndTime
}

// WindowOn combines the effective clock times with the given calendar date to
// produce the absolute shift-start and shift-end instants in loc.
func (s Schedule) WindowOn(date time.Time, loc *time.Location) (start, end time.Time) {
	from := s.EffectiveStart()
	to := s.EffectiveEnd()
	start = time.Date(date.Year(), date.Month(), date.Day(),
		from.Hour(), from.Minute(), 0, 0, loc)
	end = time.Date(date.Year(), date.Month(), date.Day(),
		to.Hour(), to.Minute(), 0, 0, loc)
	return start, end
}

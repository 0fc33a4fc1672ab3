package deviceops

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforcehq/attendance-bridge/internal/domain/attendance"
	"github.com/workforcehq/attendance-bridge/internal/domain/employee"
	domainpolicy "github.com/workforcehq/attendance-bridge/internal/domain/policy"
	"github.com/workforcehq/attendance-bridge/internal/domain/schedule"
	"github.com/workforcehq/attendance-bridge/internal/service/policy"
)

type memAttendanceRepo struct {
	rows map[string]attendance.Attendance // employeeID|date
}

func key(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format(time.DateOnly)
}

func (r *memAttendanceRepo) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.rows[key(a.EmployeeID, a.Date)] = a
	return a, nil
}

func (r *memAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	a, ok := r.rows[key(employeeID, date)]
	if !ok {
		return nil, nil
	}
	out := a
	return &out, nil
}

func (r *memAttendanceRepo) Update(_ context.Context, a attendance.Attendance) error {
	r.rows[key(a.EmployeeID, a.Date)] = a
	return nil
}

func (r *memAttendanceRepo) ListOpenByDate(_ context.Context, date time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, a := range r.rows {
		if a.Date.Equal(date) && a.State() == attendance.StateOpen {
			out = append(out, a)
		}
	}
	return out, nil
}

type memEmployeeRepo struct {
	byID map[string]employee.Employee
}

func (r *memEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *memEmployeeRepo) GetByEmployeeNumber(_ context.Context, number int) (employee.Employee, error) {
	for _, e := range r.byID {
		if e.EmployeeNumber == number {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type memScheduleRepo struct {
	rows map[string]schedule.Schedule // employeeID|date
}

func (r *memScheduleRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (schedule.Schedule, error) {
	s, ok := r.rows[key(employeeID, date)]
	if !ok {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	return s, nil
}

func (r *memScheduleRepo) ListByDate(_ context.Context, date time.Time) ([]schedule.Schedule, error) {
	var out []schedule.Schedule
	for _, s := range r.rows {
		if s.Date.Equal(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

type globalConfigRepo struct {
	global domainpolicy.AttendanceConfiguration
}

func (r *globalConfigRepo) GetGlobal(context.Context) (domainpolicy.AttendanceConfiguration, error) {
	return r.global, nil
}

func (r *globalConfigRepo) GetByOrganization(context.Context, string) (domainpolicy.AttendanceConfiguration, error) {
	return domainpolicy.AttendanceConfiguration{}, domainpolicy.ErrConfigurationNotFound
}

func (r *globalConfigRepo) Create(_ context.Context, cfg domainpolicy.AttendanceConfiguration) (domainpolicy.AttendanceConfiguration, error) {
	return cfg, nil
}

func (r *globalConfigRepo) Update(context.Context, domainpolicy.AttendanceConfiguration) error {
	return nil
}

type dayCloseFixture struct {
	jobs        *DayCloseJobs
	attendances *memAttendanceRepo
	schedules   *memScheduleRepo
	employees   *memEmployeeRepo
	date        time.Time
	shiftStart  time.Time
	shiftEnd    time.Time
}

func newDayCloseFixture(t *testing.T, cfg domainpolicy.AttendanceConfiguration) *dayCloseFixture {
	t.Helper()

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	shiftStart := date.Add(9 * time.Hour)
	shiftEnd := date.Add(17 * time.Hour)

	attendances := &memAttendanceRepo{rows: make(map[string]attendance.Attendance)}
	employees := &memEmployeeRepo{byID: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", OrganizationID: "org-1", EmployeeNumber: 1, Status: employee.StatusActive},
		"emp-2": {ID: "emp-2", OrganizationID: "org-1", EmployeeNumber: 2, Status: employee.StatusActive},
	}}
	shift := schedule.Shift{ID: "shift-day", StartTime: shiftStart, EndTime: shiftEnd}
	schedules := &memScheduleRepo{rows: map[string]schedule.Schedule{
		key("emp-1", date): {ID: "sched-1", EmployeeID: "emp-1", ShiftID: shift.ID, Date: date, Shift: shift},
		key("emp-2", date): {ID: "sched-2", EmployeeID: "emp-2", ShiftID: shift.ID, Date: date, Shift: shift},
	}}
	resolver := policy.NewResolver(&globalConfigRepo{global: cfg})

	return &dayCloseFixture{
		jobs:        NewDayCloseJobs(attendances, employees, schedules, resolver, nil, 1),
		attendances: attendances,
		schedules:   schedules,
		employees:   employees,
		date:        date,
		shiftStart:  shiftStart,
		shiftEnd:    shiftEnd,
	}
}

func deductionConfig() domainpolicy.AttendanceConfiguration {
	return domainpolicy.AttendanceConfiguration{
		AllowLate:                 true,
		AllowUnderTime:            true,
		NoTimeOutDeduction:        true,
		NoTimeOutDeductionMinutes: 120,
		NoTimeInDeduction:         true,
		NoTimeInDeductionMinutes:  480,
	}
}

func TestCloseDate_ClosesOpenAttendanceWithDeduction(t *testing.T) {
	f := newDayCloseFixture(t, deductionConfig())
	in := f.shiftStart
	f.attendances.rows[key("emp-1", f.date)] = attendance.Attendance{
		ID: "att-1", EmployeeID: "emp-1", OrganizationID: "org-1",
		Date: f.date, TimeIn: &in,
		Statuses: []attendance.Status{attendance.StatusLate},
	}
	// emp-2 punched a complete day; must stay untouched.
	out := f.shiftEnd
	f.attendances.rows[key("emp-2", f.date)] = attendance.Attendance{
		ID: "att-2", EmployeeID: "emp-2", OrganizationID: "org-1",
		Date: f.date, TimeIn: &in, TimeOut: &out,
		Statuses: []attendance.Status{attendance.StatusDefault},
	}

	require.NoError(t, f.jobs.closeDate(context.Background(), f.date))

	closed := f.attendances.rows[key("emp-1", f.date)]
	require.NotNil(t, closed.TimeOut)
	assert.Equal(t, f.shiftEnd, *closed.TimeOut, "shift end stands in for the missing checkout")
	assert.Equal(t, []attendance.Status{attendance.StatusLate, attendance.StatusUnderTime}, closed.Statuses)
	require.NotNil(t, closed.DeductionMinutes)
	assert.Equal(t, 120, *closed.DeductionMinutes)

	untouched := f.attendances.rows[key("emp-2", f.date)]
	assert.Equal(t, []attendance.Status{attendance.StatusDefault}, untouched.Statuses)
	assert.Nil(t, untouched.DeductionMinutes)
}

func TestCloseDate_DeductionDisabledLeavesDayOpen(t *testing.T) {
	cfg := deductionConfig()
	cfg.NoTimeOutDeduction = false
	f := newDayCloseFixture(t, cfg)
	in := f.shiftStart
	f.attendances.rows[key("emp-1", f.date)] = attendance.Attendance{
		ID: "att-1", EmployeeID: "emp-1", OrganizationID: "org-1",
		Date: f.date, TimeIn: &in,
		Statuses: []attendance.Status{attendance.StatusDefault},
	}

	require.NoError(t, f.jobs.closeDate(context.Background(), f.date))

	a := f.attendances.rows[key("emp-1", f.date)]
	assert.Nil(t, a.TimeOut)
	assert.Nil(t, a.DeductionMinutes)
}

func TestCloseDate_MarksScheduledNoShowAbsent(t *testing.T) {
	f := newDayCloseFixture(t, deductionConfig())

	require.NoError(t, f.jobs.closeDate(context.Background(), f.date))

	for _, id := range []string{"emp-1", "emp-2"} {
		a, ok := f.attendances.rows[key(id, f.date)]
		require.True(t, ok, "expected absent row for %s", id)
		assert.Equal(t, []attendance.Status{attendance.StatusAbsent}, a.Statuses)
		require.NotNil(t, a.DeductionMinutes)
		assert.Equal(t, 480, *a.DeductionMinutes)
		assert.Nil(t, a.TimeIn)
	}
}

func TestCloseDate_HolidayScheduleNeverMarksAbsent(t *testing.T) {
	f := newDayCloseFixture(t, deductionConfig())
	holidayID := "hol-1"
	s := f.schedules.rows[key("emp-1", f.date)]
	s.HolidayID = &holidayID
	f.schedules.rows[key("emp-1", f.date)] = s

	require.NoError(t, f.jobs.closeDate(context.Background(), f.date))

	_, ok := f.attendances.rows[key("emp-1", f.date)]
	assert.False(t, ok, "holiday no-show is not an absence")
}

func TestCloseDate_InactiveEmployeeNeverMarkedAbsent(t *testing.T) {
	f := newDayCloseFixture(t, deductionConfig())
	emp := f.employees.byID["emp-1"]
	emp.Status = employee.StatusResigned
	f.employees.byID["emp-1"] = emp

	require.NoError(t, f.jobs.closeDate(context.Background(), f.date))

	_, ok := f.attendances.rows[key("emp-1", f.date)]
	assert.False(t, ok)
}

func TestCloseDate_RerunIsIdempotent(t *testing.T) {
	f := newDayCloseFixture(t, deductionConfig())
	in := f.shiftStart
	f.attendances.rows[key("emp-1", f.date)] = attendance.Attendance{
		ID: "att-1", EmployeeID: "emp-1", OrganizationID: "org-1",
		Date: f.date, TimeIn: &in,
		Statuses: []attendance.Status{attendance.StatusDefault},
	}

	require.NoError(t, f.jobs.closeDate(context.Background(), f.date))
	first := f.attendances.rows[key("emp-1", f.date)]
	absent := f.attendances.rows[key("emp-2", f.date)]

	require.NoError(t, f.jobs.closeDate(context.Background(), f.date))

	assert.Equal(t, first, f.attendances.rows[key("emp-1", f.date)])
	assert.Equal(t, absent, f.attendances.rows[key("emp-2", f.date)])
}

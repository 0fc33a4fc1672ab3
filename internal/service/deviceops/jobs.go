package deviceops

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/workforcehq/attendance-bridge/internal/domain/attendance"
	"github.com/workforcehq/attendance-bridge/internal/domain/employee"
	"github.com/workforcehq/attendance-bridge/internal/domain/notification"
	"github.com/workforcehq/attendance-bridge/internal/domain/schedule"
	"github.com/workforcehq/attendance-bridge/internal/pkg/cron"
	"github.com/workforcehq/attendance-bridge/internal/service/policy"
)

// DayCloseJobs settles the previous day after the devices have gone quiet:
// open attendances get closed with the configured missing-checkout penalty,
// and scheduled employees who never punched get an absent record.
type DayCloseJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	scheduleRepo   schedule.ScheduleRepository
	policies       *policy.Resolver
	notifier       notification.Service

	hour int // local hour of day at which the job fires
}

func NewDayCloseJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	scheduleRepo schedule.ScheduleRepository,
	policies *policy.Resolver,
	notifier notification.Service,
	hour int,
) *DayCloseJobs {
	return &DayCloseJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		scheduleRepo:   scheduleRepo,
		policies:       policies,
		notifier:       notifier,
		hour:           hour,
	}
}

func (j *DayCloseJobs) RegisterJobs(scheduler *cron.Scheduler) {
	scheduler.AddJob("close_previous_day", 1*time.Hour, j.ClosePreviousDay)
}

// ClosePreviousDay settles yesterday's attendance. The scheduler ticks
// hourly; the work only runs during the configured hour.
func (j *DayCloseJobs) ClosePreviousDay(ctx context.Context) error {
	now := time.Now()
	if now.Hour() != j.hour {
		return nil
	}
	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
	return j.closeDate(ctx, yesterday)
}

func (j *DayCloseJobs) closeDate(ctx context.Context, date time.Time) error {
	closed, err := j.closeMissingCheckouts(ctx, date)
	if err != nil {
		return err
	}
	absent, err := j.markAbsentees(ctx, date)
	if err != nil {
		return err
	}
	slog.Info("day close finished",
		slog.String("date", date.Format(time.DateOnly)),
		slog.Int("closed", closed),
		slog.Int("absent", absent))
	return nil
}

// closeMissingCheckouts closes every attendance still open on date. The shift
// end stands in for the missing checkout; the configured deduction marks the
// day under-time.
func (j *DayCloseJobs) closeMissingCheckouts(ctx context.Context, date time.Time) (int, error) {
	open, err := j.attendanceRepo.ListOpenByDate(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to list open attendances: %w", err)
	}

	closed := 0
	for _, att := range open {
		if att.HasStatus(attendance.StatusAbsent) {
			continue
		}

		cfg, err := j.policies.ForOrganization(ctx, att.OrganizationID)
		if err != nil {
			slog.Error("failed to resolve configuration",
				slog.String("attendance_id", att.ID),
				slog.String("error", err.Error()))
			continue
		}
		if !cfg.NoTimeOutDeduction {
			continue
		}

		sched, err := j.scheduleRepo.GetByEmployeeAndDate(ctx, att.EmployeeID, date)
		if err != nil {
			slog.Error("failed to get schedule for open attendance",
				slog.String("attendance_id", att.ID),
				slog.String("error", err.Error()))
			continue
		}
		_, end := sched.WindowOn(date, date.Location())

		att.TimeOut = &end
		att.Statuses = append(att.Statuses, attendance.StatusUnderTime)
		deduction := cfg.NoTimeOutDeductionMinutes
		att.DeductionMinutes = &deduction
		if err := j.attendanceRepo.Update(ctx, att); err != nil {
			slog.Error("failed to close attendance",
				slog.String("attendance_id", att.ID),
				slog.String("error", err.Error()))
			continue
		}
		j.publish(ctx, notification.EventAttendanceClosed, att)
		closed++
	}
	return closed, nil
}

// markAbsentees creates an absent record for every employee scheduled on date
// who never punched in. Holiday schedules are exempt.
func (j *DayCloseJobs) markAbsentees(ctx context.Context, date time.Time) (int, error) {
	schedules, err := j.scheduleRepo.ListByDate(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to list schedules: %w", err)
	}

	absent := 0
	for _, sched := range schedules {
		if sched.IsHoliday() {
			continue
		}

		existing, err := j.attendanceRepo.GetByEmployeeAndDate(ctx, sched.EmployeeID, date)
		if err != nil {
			slog.Error("failed to get attendance",
				slog.String("employee_id", sched.EmployeeID),
				slog.String("error", err.Error()))
			continue
		}
		if existing != nil {
			continue
		}

		emp, err := j.employeeRepo.GetByID(ctx, sched.EmployeeID)
		if err != nil {
			slog.Error("failed to get scheduled employee",
				slog.String("employee_id", sched.EmployeeID),
				slog.String("error", err.Error()))
			continue
		}
		if emp.Status != employee.StatusActive {
			continue
		}

		cfg, err := j.policies.ForOrganization(ctx, emp.OrganizationID)
		if err != nil {
			slog.Error("failed to resolve configuration",
				slog.String("employee_id", emp.ID),
				slog.String("error", err.Error()))
			continue
		}

		att := attendance.Attendance{
			ID:             uuid.NewString(),
			EmployeeID:     emp.ID,
			OrganizationID: emp.OrganizationID,
			ScheduleID:     sched.ID,
			Date:           date,
			Statuses:       []attendance.Status{attendance.StatusAbsent},
		}
		if cfg.NoTimeInDeduction {
			deduction := cfg.NoTimeInDeductionMinutes
			att.DeductionMinutes = &deduction
		}
		created, err := j.attendanceRepo.Create(ctx, att)
		if err != nil {
			slog.Error("failed to create absent attendance",
				slog.String("employee_id", emp.ID),
				slog.String("error", err.Error()))
			continue
		}
		j.publish(ctx, notification.EventAttendanceClosed, created)
		absent++
	}
	return absent, nil
}

func (j *DayCloseJobs) publish(ctx context.Context, eventType notification.EventType, att attendance.Attendance) {
	if j.notifier == nil {
		return
	}
	j.notifier.Publish(ctx, notification.Event{
		Type:         eventType,
		AttendanceID: att.ID,
		EmployeeID:   att.EmployeeID,
		Statuses:     att.Statuses,
		OccurredAt:   time.Now(),
	})
}

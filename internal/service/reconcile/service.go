// Package reconcile turns raw biometric punches into attendance records. One
// batch comes from one device poll; each record walks the employee-day state
// machine independently so a single bad record never poisons the rest of the
// batch.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/workforcehq/attendance-bridge/internal/domain/attendance"
	"github.com/workforcehq/attendance-bridge/internal/domain/employee"
	"github.com/workforcehq/attendance-bridge/internal/domain/notification"
	"github.com/workforcehq/attendance-bridge/internal/domain/schedule"
	"github.com/workforcehq/attendance-bridge/internal/pkg/database"
	"github.com/workforcehq/attendance-bridge/internal/repository/postgresql"
	"github.com/workforcehq/attendance-bridge/internal/service/policy"
)

// errSkipRecord marks records that are permanently unprocessable: malformed
// user ids, unknown employees, missing schedules. They are dropped, never
// retried.
var errSkipRecord = errors.New("record skipped")

type Service struct {
	db             *database.DB
	attendanceRepo attendance.AttendanceRepository
	punchRepo      attendance.PunchRepository
	employeeRepo   employee.EmployeeRepository
	scheduleRepo   schedule.ScheduleRepository
	policies       *policy.Resolver
	notifier       notification.Service
}

func NewService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	punchRepo attendance.PunchRepository,
	employeeRepo employee.EmployeeRepository,
	scheduleRepo schedule.ScheduleRepository,
	policies *policy.Resolver,
	notifier notification.Service,
) *Service {
	return &Service{
		db:             db,
		attendanceRepo: attendanceRepo,
		punchRepo:      punchRepo,
		employeeRepo:   employeeRepo,
		scheduleRepo:   scheduleRepo,
		policies:       policies,
		notifier:       notifier,
	}
}

// Summary reports the fate of every record in a batch. Failed counts
// persistence errors, which are retryable on the next poll; Skipped counts
// records that will never become attendance.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
}

// ProcessBatch reconciles every record in the batch sequentially, in device
// order. Records never abort the batch: problems are logged and counted.
func (s *Service) ProcessBatch(ctx context.Context, batch attendance.Batch) Summary {
	var summary Summary
	for _, record := range batch.Records {
		err := s.processRecord(ctx, batch.DeviceID, record)
		switch {
		case err == nil:
			summary.Processed++
		case errors.Is(err, errSkipRecord):
			summary.Skipped++
			slog.Warn("skipping device record",
				slog.String("device_id", batch.DeviceID),
				slog.String("user_id", record.UserID),
				slog.Time("timestamp", record.Timestamp),
				slog.String("reason", err.Error()))
		default:
			summary.Failed++
			slog.Error("failed to process device record",
				slog.String("device_id", batch.DeviceID),
				slog.String("user_id", record.UserID),
				slog.Time("timestamp", record.Timestamp),
				slog.String("error", err.Error()))
		}
	}
	return summary
}

func (s *Service) processRecord(ctx context.Context, deviceID string, record attendance.RawRecord) error {
	if !attendance.ValidUserID(record.UserID) {
		return fmt.Errorf("%w: invalid user id %q", errSkipRecord, record.UserID)
	}
	number, err := strconv.Atoi(record.UserID)
	if err != nil {
		return fmt.Errorf("%w: invalid user id %q", errSkipRecord, record.UserID)
	}

	emp, err := s.employeeRepo.GetByEmployeeNumber(ctx, number)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return fmt.Errorf("%w: no employee with number %d", errSkipRecord, number)
		}
		return fmt.Errorf("failed to get employee %d: %w", number, err)
	}

	punchTime := record.Timestamp
	date := time.Date(punchTime.Year(), punchTime.Month(), punchTime.Day(),
		0, 0, 0, 0, punchTime.Location())

	sched, err := s.scheduleRepo.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return fmt.Errorf("%w: no schedule for employee %s on %s",
				errSkipRecord, emp.ID, date.Format(time.DateOnly))
		}
		return fmt.Errorf("failed to get schedule: %w", err)
	}

	cfg, err := s.policies.ForOrganization(ctx, emp.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to resolve attendance configuration: %w", err)
	}

	current, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, date)
	if err != nil {
		return fmt.Errorf("failed to get attendance: %w", err)
	}

	start, end := sched.WindowOn(date, punchTime.Location())
	outcome := Apply(current, punchTime, ShiftWindow{Start: start, End: end}, sched.IsHoliday(), cfg)

	// The attendance write and its punch audit row commit together.
	var persisted attendance.Attendance
	var eventType notification.EventType
	err = s.withTransaction(ctx, func(ctx context.Context) error {
		var attendanceID string
		switch outcome.Action {
		case ActionOpenDay:
			created, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
				ID:             uuid.NewString(),
				EmployeeID:     emp.ID,
				OrganizationID: emp.OrganizationID,
				ScheduleID:     sched.ID,
				Date:           date,
				TimeIn:         &punchTime,
				Statuses:       outcome.Statuses,
				LateMinutes:    outcome.LateMinutes,
			})
			if err != nil {
				return fmt.Errorf("failed to create attendance: %w", err)
			}
			attendanceID = created.ID
			persisted, eventType = created, notification.EventAttendanceOpened

		case ActionCloseDay:
			updated := *current
			updated.TimeOut = &punchTime
			updated.Statuses = outcome.Statuses
			updated.UnderTimeMinutes = outcome.UnderTimeMinutes
			updated.OvertimeMinutes = outcome.OvertimeMinutes
			if err := s.attendanceRepo.Update(ctx, updated); err != nil {
				return fmt.Errorf("failed to update attendance: %w", err)
			}
			attendanceID = updated.ID
			persisted, eventType = updated, notification.EventAttendanceClosed

		case ActionRecordOnly:
			attendanceID = current.ID
			slog.Debug("attendance already closed, storing punch only",
				slog.String("attendance_id", current.ID),
				slog.Time("timestamp", punchTime))
		}

		_, err := s.punchRepo.Create(ctx, attendance.Punch{
			ID:             uuid.NewString(),
			AttendanceID:   attendanceID,
			Time:           punchTime,
			PunchType:      strconv.Itoa(int(record.Type)),
			EmployeeNumber: emp.EmployeeNumber,
			DeviceID:       deviceID,
		})
		if err != nil {
			return fmt.Errorf("failed to create attendance punch: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if eventType != "" {
		s.publish(ctx, eventType, persisted)
	}
	return nil
}

// withTransaction runs fn transactionally when the service is backed by a
// real database. Tests inject in-memory repositories and no db handle.
func (s *Service) withTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

func (s *Service) publish(ctx context.Context, eventType notification.EventType, att attendance.Attendance) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(ctx, notification.Event{
		Type:         eventType,
		AttendanceID: att.ID,
		EmployeeID:   att.EmployeeID,
		Statuses:     att.Statuses,
		OccurredAt:   time.Now(),
	})
}

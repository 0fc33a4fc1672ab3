package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/workforcehq/attendance-bridge/internal/domain/schedule"
	"github.com/workforcehq/attendance-bridge/internal/pkg/database"
)

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `
	s.id, s.employee_id, s.shift_id, s.date,
	s.start_time, s.end_time, s.holiday_id, h.name,
	s.created_at, s.updated_at,
	sh.id, sh.organization_id, sh.name, sh.start_time, sh.end_time,
	sh.weekdays, sh.created_at, sh.updated_at
`

// GetByEmployeeAndDate implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules s
		JOIN shifts sh ON sh.id = s.shift_id
		LEFT JOIN holidays h ON h.id = s.holiday_id
		WHERE s.employee_id = $1
		  AND s.date = $2
		LIMIT 1
	`

	sched, err := scanSchedule(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule by employee and date: %w", err)
	}
	return sched, nil
}

// ListByDate implements schedule.ScheduleRepository.
func (r *scheduleRepository) ListByDate(ctx context.Context, date time.Time) ([]schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules s
		JOIN shifts sh ON sh.id = s.shift_id
		LEFT JOIN holidays h ON h.id = s.holiday_id
		WHERE s.date = $1
		ORDER BY s.employee_id
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var out []schedule.Schedule
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		out = append(out, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}
	return out, nil
}

func scanSchedule(row pgx.Row) (schedule.Schedule, error) {
	var sched schedule.Schedule
	err := row.Scan(
		&sched.ID, &sched.EmployeeID, &sched.ShiftID, &sched.Date,
		&sched.StartTime, &sched.EndTime, &sched.HolidayID, &sched.HolidayName,
		&sched.CreatedAt, &sched.UpdatedAt,
		&sched.Shift.ID, &sched.Shift.OrganizationID, &sched.Shift.Name,
		&sched.Shift.StartTime, &sched.Shift.EndTime,
		&sched.Shift.Weekdays, &sched.Shift.CreatedAt, &sched.Shift.UpdatedAt,
	)
	return sched, err
}

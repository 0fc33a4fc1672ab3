package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/workforcehq/attendance-bridge/internal/domain/attendance"
	"github.com/workforcehq/attendance-bridge/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, organization_id, schedule_id, date,
			time_in, time_out, statuses,
			late_minutes, under_time_minutes, overtime_minutes, deduction_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID,
		att.EmployeeID,
		att.OrganizationID,
		att.ScheduleID,
		att.Date,
		att.TimeIn,
		att.TimeOut,
		statusesToStrings(att.Statuses),
		att.LateMinutes,
		att.UnderTimeMinutes,
		att.OvertimeMinutes,
		att.DeductionMinutes,
	).Scan(&att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, organization_id, schedule_id, date,
			   time_in, time_out, statuses,
			   late_minutes, under_time_minutes, overtime_minutes, deduction_minutes,
			   created_at, updated_at
		FROM attendances
		WHERE employee_id = $1
		  AND date = $2
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET time_in = $2,
			time_out = $3,
			statuses = $4,
			late_minutes = $5,
			under_time_minutes = $6,
			overtime_minutes = $7,
			deduction_minutes = $8,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		att.ID,
		att.TimeIn,
		att.TimeOut,
		statusesToStrings(att.Statuses),
		att.LateMinutes,
		att.UnderTimeMinutes,
		att.OvertimeMinutes,
		att.DeductionMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListOpenByDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListOpenByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, organization_id, schedule_id, date,
			   time_in, time_out, statuses,
			   late_minutes, under_time_minutes, overtime_minutes, deduction_minutes,
			   created_at, updated_at
		FROM attendances
		WHERE date = $1
		  AND time_out IS NULL
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendances: %w", err)
	}
	defer rows.Close()

	var out []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		out = append(out, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return out, nil
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var statuses []string
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.OrganizationID, &att.ScheduleID, &att.Date,
		&att.TimeIn, &att.TimeOut, &statuses,
		&att.LateMinutes, &att.UnderTimeMinutes, &att.OvertimeMinutes, &att.DeductionMinutes,
		&att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	att.Statuses = stringsToStatuses(statuses)
	return att, nil
}

func statusesToStrings(statuses []attendance.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func stringsToStatuses(values []string) []attendance.Status {
	out := make([]attendance.Status, len(values))
	for i, v := range values {
		out[i] = attendance.Status(v)
	}
	return out
}

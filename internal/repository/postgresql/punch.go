package postgresql

import (
	"context"
	"fmt"

	"github.com/workforcehq/attendance-bridge/internal/domain/attendance"
	"github.com/workforcehq/attendance-bridge/internal/pkg/database"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) attendance.PunchRepository {
	return &punchRepository{db: db}
}

// Create implements attendance.PunchRepository. Punches are append-only; no
// update or delete exists.
func (r *punchRepository) Create(ctx context.Context, punch attendance.Punch) (attendance.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_punches (
			id, attendance_id, punched_at, punch_type, employee_number, device_id
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		punch.ID,
		punch.AttendanceID,
		punch.Time,
		punch.PunchType,
		punch.EmployeeNumber,
		punch.DeviceID,
	).Scan(&punch.CreatedAt)

	if err != nil {
		return attendance.Punch{}, fmt.Errorf("failed to create attendance punch: %w", err)
	}
	return punch, nil
}

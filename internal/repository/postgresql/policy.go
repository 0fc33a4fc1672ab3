package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/workforcehq/attendance-bridge/internal/domain/policy"
	"github.com/workforcehq/attendance-bridge/internal/pkg/database"
)

type configurationRepository struct {
	db *database.DB
}

func NewConfigurationRepository(db *database.DB) policy.ConfigurationRepository {
	return &configurationRepository{db: db}
}

const configurationColumns = `
	id, organization_id,
	allow_early_time, allow_late, allow_under_time, allow_overtime,
	early_time_threshold_minutes, grace_period_minutes,
	under_time_threshold_minutes, overtime_threshold_minutes,
	round_early_time, round_early_time_minutes,
	round_late, round_late_minutes,
	round_under_time, round_under_time_minutes,
	round_overtime, round_overtime_minutes,
	no_time_in_deduction, no_time_in_deduction_minutes,
	no_time_out_deduction, no_time_out_deduction_minutes,
	created_at, updated_at
`

// GetGlobal implements policy.ConfigurationRepository.
func (r *configurationRepository) GetGlobal(ctx context.Context) (policy.AttendanceConfiguration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + configurationColumns + `
		FROM attendance_configurations
		WHERE organization_id IS NULL
		LIMIT 1
	`

	cfg, err := scanConfiguration(q.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return policy.AttendanceConfiguration{}, policy.ErrConfigurationNotFound
		}
		return policy.AttendanceConfiguration{}, fmt.Errorf("failed to get global configuration: %w", err)
	}
	return cfg, nil
}

// GetByOrganization implements policy.ConfigurationRepository.
func (r *configurationRepository) GetByOrganization(ctx context.Context, organizationID string) (policy.AttendanceConfiguration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + configurationColumns + `
		FROM attendance_configurations
		WHERE organization_id = $1
		LIMIT 1
	`

	cfg, err := scanConfiguration(q.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return policy.AttendanceConfiguration{}, policy.ErrConfigurationNotFound
		}
		return policy.AttendanceConfiguration{}, fmt.Errorf("failed to get organization configuration: %w", err)
	}
	return cfg, nil
}

// Create implements policy.ConfigurationRepository. A partial unique index on
// the table enforces at most one global row; the violation surfaces as
// ErrGlobalConfigExists.
func (r *configurationRepository) Create(ctx context.Context, cfg policy.AttendanceConfiguration) (policy.AttendanceConfiguration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_configurations (
			id, organization_id,
			allow_early_time, allow_late, allow_under_time, allow_overtime,
			early_time_threshold_minutes, grace_period_minutes,
			under_time_threshold_minutes, overtime_threshold_minutes,
			round_early_time, round_early_time_minutes,
			round_late, round_late_minutes,
			round_under_time, round_under_time_minutes,
			round_overtime, round_overtime_minutes,
			no_time_in_deduction, no_time_in_deduction_minutes,
			no_time_out_deduction, no_time_out_deduction_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		cfg.ID, cfg.OrganizationID,
		cfg.AllowEarlyTime, cfg.AllowLate, cfg.AllowUnderTime, cfg.AllowOvertime,
		cfg.EarlyTimeThresholdMinutes, cfg.GracePeriodMinutes,
		cfg.UnderTimeThresholdMinutes, cfg.OvertimeThresholdMinutes,
		cfg.RoundEarlyTime, cfg.RoundEarlyTimeMinutes,
		cfg.RoundLate, cfg.RoundLateMinutes,
		cfg.RoundUnderTime, cfg.RoundUnderTimeMinutes,
		cfg.RoundOvertime, cfg.RoundOvertimeMinutes,
		cfg.NoTimeInDeduction, cfg.NoTimeInDeductionMinutes,
		cfg.NoTimeOutDeduction, cfg.NoTimeOutDeductionMinutes,
	).Scan(&cfg.CreatedAt, &cfg.UpdatedAt)

	if err != nil {
		if cfg.IsGlobal() && isUniqueViolation(err) {
			return policy.AttendanceConfiguration{}, policy.ErrGlobalConfigExists
		}
		return policy.AttendanceConfiguration{}, fmt.Errorf("failed to create configuration: %w", err)
	}
	return cfg, nil
}

// Update implements policy.ConfigurationRepository.
func (r *configurationRepository) Update(ctx context.Context, cfg policy.AttendanceConfiguration) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_configurations
		SET allow_early_time = $2, allow_late = $3,
			allow_under_time = $4, allow_overtime = $5,
			early_time_threshold_minutes = $6, grace_period_minutes = $7,
			under_time_threshold_minutes = $8, overtime_threshold_minutes = $9,
			round_early_time = $10, round_early_time_minutes = $11,
			round_late = $12, round_late_minutes = $13,
			round_under_time = $14, round_under_time_minutes = $15,
			round_overtime = $16, round_overtime_minutes = $17,
			no_time_in_deduction = $18, no_time_in_deduction_minutes = $19,
			no_time_out_deduction = $20, no_time_out_deduction_minutes = $21,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		cfg.ID,
		cfg.AllowEarlyTime, cfg.AllowLate, cfg.AllowUnderTime, cfg.AllowOvertime,
		cfg.EarlyTimeThresholdMinutes, cfg.GracePeriodMinutes,
		cfg.UnderTimeThresholdMinutes, cfg.OvertimeThresholdMinutes,
		cfg.RoundEarlyTime, cfg.RoundEarlyTimeMinutes,
		cfg.RoundLate, cfg.RoundLateMinutes,
		cfg.RoundUnderTime, cfg.RoundUnderTimeMinutes,
		cfg.RoundOvertime, cfg.RoundOvertimeMinutes,
		cfg.NoTimeInDeduction, cfg.NoTimeInDeductionMinutes,
		cfg.NoTimeOutDeduction, cfg.NoTimeOutDeductionMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return policy.ErrConfigurationNotFound
	}
	return nil
}

func scanConfiguration(row pgx.Row) (policy.AttendanceConfiguration, error) {
	var cfg policy.AttendanceConfiguration
	err := row.Scan(
		&cfg.ID, &cfg.OrganizationID,
		&cfg.AllowEarlyTime, &cfg.AllowLate, &cfg.AllowUnderTime, &cfg.AllowOvertime,
		&cfg.EarlyTimeThresholdMinutes, &cfg.GracePeriodMinutes,
		&cfg.UnderTimeThresholdMinutes, &cfg.OvertimeThresholdMinutes,
		&cfg.RoundEarlyTime, &cfg.RoundEarlyTimeMinutes,
		&cfg.RoundLate, &cfg.RoundLateMinutes,
		&cfg.RoundUnderTime, &cfg.RoundUnderTimeMinutes,
		&cfg.RoundOvertime, &cfg.RoundOvertimeMinutes,
		&cfg.NoTimeInDeduction, &cfg.NoTimeInDeductionMinutes,
		&cfg.NoTimeOutDeduction, &cfg.NoTimeOutDeductionMinutes,
		&cfg.CreatedAt, &cfg.UpdatedAt,
	)
	return cfg, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

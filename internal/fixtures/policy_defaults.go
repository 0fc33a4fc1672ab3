// Package fixtures seeds the data the bridge cannot run without.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/workforcehq/attendance-bridge/internal/domain/policy"
)

// DefaultGlobalConfiguration returns the global fallback attendance
// configuration seeded on first boot. Thresholds are in minutes.
func DefaultGlobalConfiguration() policy.AttendanceConfiguration {
	return policy.AttendanceConfiguration{
		ID: uuid.NewString(),

		AllowEarlyTime: true,
		AllowLate:      true,
		AllowUnderTime: true,
		AllowOvertime:  true,

		EarlyTimeThresholdMinutes: 15,
		GracePeriodMinutes:        15,
		UnderTimeThresholdMinutes: 10,
		OvertimeThresholdMinutes:  30,

		RoundEarlyTime:        true,
		RoundEarlyTimeMinutes: 15,
		RoundLate:             true,
		RoundLateMinutes:      15,
		RoundUnderTime:        true,
		RoundUnderTimeMinutes: 10,
		RoundOvertime:         true,
		RoundOvertimeMinutes:  30,

		NoTimeInDeduction:         true,
		NoTimeInDeductionMinutes:  480,
		NoTimeOutDeduction:        true,
		NoTimeOutDeductionMinutes: 120,
	}
}

// EnsureGlobalDefault creates the global configuration row when none exists.
// Safe to call on every boot; concurrent boots lose the race harmlessly.
func EnsureGlobalDefault(ctx context.Context, repo policy.ConfigurationRepository) error {
	_, err := repo.GetGlobal(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, policy.ErrConfigurationNotFound) {
		return fmt.Errorf("failed to check global configuration: %w", err)
	}

	created, err := repo.Create(ctx, DefaultGlobalConfiguration())
	if err != nil {
		if errors.Is(err, policy.ErrGlobalConfigExists) {
			return nil
		}
		return fmt.Errorf("failed to seed global configuration: %w", err)
	}
	slog.Info("seeded global attendance configuration", slog.String("id", created.ID))
	return nil
}

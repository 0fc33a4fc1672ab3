package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/workforcehq/attendance-bridge/internal/domain/device"
	"github.com/workforcehq/attendance-bridge/internal/pkg/database"
)

type deviceRepository struct {
	db *database.DB
}

func NewDeviceRepository(db *database.DB) device.DeviceRepository {
	return &deviceRepository{db: db}
}

// GetByID implements device.DeviceRepository.
func (r *deviceRepository) GetByID(ctx context.Context, id string) (device.BiometricDevice, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, name, channel, host, port, enabled,
			   created_at, updated_at
		FROM biometric_devices
		WHERE id = $1
	`

	dev, err := scanDevice(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.BiometricDevice{}, device.ErrDeviceNotFound
		}
		return device.BiometricDevice{}, fmt.Errorf("failed to get device by id: %w", err)
	}
	return dev, nil
}

// ListEnabled implements device.DeviceRepository.
func (r *deviceRepository) ListEnabled(ctx context.Context) ([]device.BiometricDevice, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, name, channel, host, port, enabled,
			   created_at, updated_at
		FROM biometric_devices
		WHERE enabled
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled devices: %w", err)
	}
	defer rows.Close()

	var out []device.BiometricDevice
	for rows.Next() {
		dev, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		out = append(out, dev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate devices: %w", err)
	}
	return out, nil
}

func scanDevice(row pgx.Row) (device.BiometricDevice, error) {
	var dev device.BiometricDevice
	err := row.Scan(
		&dev.ID, &dev.OrganizationID, &dev.Name, &dev.Channel, &dev.Host,
		&dev.Port, &dev.Enabled, &dev.CreatedAt, &dev.UpdatedAt,
	)
	return dev, err
}

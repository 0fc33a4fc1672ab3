package device

import "context"

type DeviceRepository interface {
	GetByID(ctx context.Context, id string) (BiometricDevice, error)

	// ListEnabled retrieves every device the poll loop should drive.
	ListEnabled(ctx context.Context) ([]BiometricDevice, error)
}

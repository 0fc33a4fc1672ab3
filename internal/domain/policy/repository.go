package policy

import "context"

// ConfigurationRepository defines data access for attendance configurations.
// Configurations are seeded once, mutated only through Update and never
// deleted.
type ConfigurationRepository interface {
	// GetGlobal retrieves the global fallback configuration.
	GetGlobal(ctx context.Context) (AttendanceConfiguration, error)

	// GetByOrganization retrieves the configuration scoped to one organization.
	GetByOrganization(ctx context.Context, organizationID string) (AttendanceConfiguration, error)

	Create(ctx context.Context, cfg AttendanceConfiguration) (AttendanceConfiguration, error)
	Update(ctx context.Context, cfg AttendanceConfiguration) error
}

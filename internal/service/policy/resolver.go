package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/workforcehq/attendance-bridge/internal/domain/policy"
)

// Resolver picks the effective attendance configuration for an organization:
// the organization-scoped row when one exists, else the global fallback.
type Resolver struct {
	repo policy.ConfigurationRepository
}

func NewResolver(repo policy.ConfigurationRepository) *Resolver {
	return &Resolver{repo: repo}
}

// ForOrganization resolves the configuration governing organizationID.
func (r *Resolver) ForOrganization(ctx context.Context, organizationID string) (policy.AttendanceConfiguration, error) {
	cfg, err := r.repo.GetByOrganization(ctx, organizationID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, policy.ErrConfigurationNotFound) {
		return policy.AttendanceConfiguration{}, fmt.Errorf("failed to get organization configuration: %w", err)
	}

	cfg, err = r.repo.GetGlobal(ctx)
	if err != nil {
		return policy.AttendanceConfiguration{}, fmt.Errorf("failed to get global configuration: %w", err)
	}
	return cfg, nil
}

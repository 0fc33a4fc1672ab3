package fixtures

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workforcehq/attendance-bridge/internal/domain/policy"
)

type stubConfigRepo struct {
	global  *policy.AttendanceConfiguration
	created []policy.AttendanceConfiguration
}

func (r *stubConfigRepo) GetGlobal(context.Context) (policy.AttendanceConfiguration, error) {
	if r.global == nil {
		return policy.AttendanceConfiguration{}, policy.ErrConfigurationNotFound
	}
	return *r.global, nil
}

func (r *stubConfigRepo) GetByOrganization(context.Context, string) (policy.AttendanceConfiguration, error) {
	return policy.AttendanceConfiguration{}, policy.ErrConfigurationNotFound
}

func (r *stubConfigRepo) Create(_ context.Context, cfg policy.AttendanceConfiguration) (policy.AttendanceConfiguration, error) {
	r.created = append(r.created, cfg)
	r.global = &cfg
	return cfg, nil
}

func (r *stubConfigRepo) Update(context.Context, policy.AttendanceConfiguration) error {
	return nil
}

func TestEnsureGlobalDefault_SeedsWhenMissing(t *testing.T) {
	repo := &stubConfigRepo{}

	require.NoError(t, EnsureGlobalDefault(context.Background(), repo))

	require.Len(t, repo.created, 1)
	cfg := repo.created[0]
	assert.True(t, cfg.IsGlobal())
	assert.NotEmpty(t, cfg.ID)
	assert.Equal(t, 15, cfg.GracePeriodMinutes)
}

func TestEnsureGlobalDefault_NoopWhenPresent(t *testing.T) {
	existing := DefaultGlobalConfiguration()
	repo := &stubConfigRepo{global: &existing}

	require.NoError(t, EnsureGlobalDefault(context.Background(), repo))

	assert.Empty(t, repo.created)
}

func TestEnsureGlobalDefault_PropagatesRepoErrors(t *testing.T) {
	repo := &failingConfigRepo{err: errors.New("connection refused")}

	err := EnsureGlobalDefault(context.Background(), repo)

	require.Error(t, err)
}

type failingConfigRepo struct {
	err error
}

func (r *failingConfigRepo) GetGlobal(context.Context) (policy.AttendanceConfiguration, error) {
	return policy.AttendanceConfiguration{}, r.err
}

func (r *failingConfigRepo) GetByOrganization(context.Context, string) (policy.AttendanceConfiguration, error) {
	return policy.AttendanceConfiguration{}, r.err
}

func (r *failingConfigRepo) Create(context.Context, policy.AttendanceConfiguration) (policy.AttendanceConfiguration, error) {
	return policy.AttendanceConfiguration{}, r.err
}

func (r *failingConfigRepo) Update(context.Context, policy.AttendanceConfiguration) error {
	return r.err
}

package selector

import (
	"context"
	"errors"
	"testing"
	"time"

	"ideaspark-be/internal/entity"
	"ideaspark-be/internal/pkg/logger"
	"ideaspark-be/internal/pkg/metrics"
	"ideaspark-be/internal/repository/contract"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	backend  contract.Backend
	probeErr error
	probes   int
	block    bool
}

func (f *fakeRepo) Backend() contract.Backend { return f.backend }
func (f *fakeRepo) List(ctx context.Context, ownerId string) ([]*entity.ProductIdea, error) {
	return nil, nil
}
func (f *fakeRepo) Create(ctx context.Context, idea *entity.ProductIdea) error { return nil }
func (f *fakeRepo) Update(ctx context.Context, idea *entity.ProductIdea) error { return nil }
func (f *fakeRepo) Delete(ctx context.Context, ownerId, id string) error       { return nil }
func (f *fakeRepo) Probe(ctx context.Context) error {
	f.probes++
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.probeErr
}

var signedIn = &entity.Session{UserId: "8d7c1f9e-2b52-4bb6-9d4e-6c1f0c0b8d11", Email: "a@b.c"}

func newSelector(remote RemoteRepository) (*Selector, *fakeRepo, *metrics.Collector) {
	local := &fakeRepo{backend: contract.BackendLocal}
	m := metrics.NewCollector("test")
	return New(remote, local, 50*time.Millisecond, logger.NewNopLogger(), m), local, m
}

func TestInitializeWithoutCredentials(t *testing.T) {
	s, local, _ := newSelector(nil)

	assert.Equal(t, contract.BackendLocal, s.Initialize(context.Background()))
	assert.Equal(t, BannerNotConfigured, s.Banner())
	assert.Same(t, local, s.Select(signedIn))
}

func TestInitializeProbeSuccess(t *testing.T) {
	remote := &fakeRepo{backend: contract.BackendRemote}
	s, local, m := newSelector(remote)

	assert.Equal(t, contract.BackendRemote, s.Initialize(context.Background()))
	assert.Empty(t, s.Banner())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StorageRemote))

	assert.Same(t, remote, s.Select(signedIn))
	assert.Same(t, local, s.Select(nil), "remote storage needs a session")
	assert.Same(t, local, s.Select(&entity.Session{}))
}

func TestInitializeMissingTableFallsBack(t *testing.T) {
	remote := &fakeRepo{
		backend: contract.BackendRemote,
		probeErr: &contract.StorageError{
			Op: "probe", Backend: contract.BackendRemote, Code: "42P01",
			Kind: contract.ErrBackendUnreachable,
			Err:  &pgconn.PgError{Code: "42P01", Message: `relation "ideas" does not exist`},
		},
	}
	s, local, m := newSelector(remote)

	assert.Equal(t, contract.BackendLocal, s.Initialize(context.Background()))
	assert.Equal(t, BannerProbeFailed, s.Banner())
	assert.Same(t, local, s.Select(signedIn))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.StorageRemote))
}

func TestInitializeProbeTimesOut(t *testing.T) {
	remote := &fakeRepo{backend: contract.BackendRemote, block: true}
	s, _, _ := newSelector(remote)

	assert.Equal(t, contract.BackendLocal, s.Initialize(context.Background()))
}

func TestInitializeRunsOnce(t *testing.T) {
	remote := &fakeRepo{backend: contract.BackendRemote}
	s, _, _ := newSelector(remote)

	s.Initialize(context.Background())
	remote.probeErr = errors.New("down")
	assert.Equal(t, contract.BackendRemote, s.Initialize(context.Background()))
	assert.Equal(t, 1, remote.probes)
}

func TestDowngradeNeverUpgrades(t *testing.T) {
	remote := &fakeRepo{backend: contract.BackendRemote}
	s, local, _ := newSelector(remote)
	s.Initialize(context.Background())

	assert.True(t, s.Downgrade(BannerSessionLost, contract.ErrAuthRequired))
	assert.Equal(t, contract.BackendLocal, s.Capability())
	assert.Equal(t, BannerSessionLost, s.Banner())
	assert.Same(t, local, s.Select(signedIn))

	assert.False(t, s.Downgrade(BannerProbeFailed, nil))
	assert.Equal(t, BannerSessionLost, s.Banner())
}

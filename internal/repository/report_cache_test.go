package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajharbinger/lotpilot/internal/errors"
	"github.com/ajharbinger/lotpilot/internal/logger/loggertest"
)

func newTestCache(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *ReportCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewReportCache(client, ttl, loggertest.New(t))
}

func TestReportCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestCache(t, time.Minute)

	inner := NewMemoryReportRepository()
	report := testReport(uuid.New(), time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, inner.Create(ctx, report))

	repo := cache.Wrap(inner)
	key := reportKey(report.ID)
	assert.False(t, mr.Exists(key))

	got, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
	assert.True(t, mr.Exists(key), "miss should populate the cache")

	cached, err := repo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.VehicleTitle, cached.VehicleTitle)
	assert.Equal(t, report.Analysis.Pricing.Action, cached.Analysis.Pricing.Action)
	assert.Equal(t, report.Analysis.SaleProbability.Prob90Day, cached.Analysis.SaleProbability.Prob90Day)

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists(key))
}

func TestReportCache_CreateWritesThrough(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestCache(t, time.Minute)
	repo := cache.Wrap(NewMemoryReportRepository())

	report := testReport(uuid.New(), time.Now().UTC())
	require.NoError(t, repo.Create(ctx, report))
	assert.True(t, mr.Exists(reportKey(report.ID)))
	assert.Equal(t, time.Minute, mr.TTL(reportKey(report.ID)))
}

func TestReportCache_DeleteByVehicleEvicts(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestCache(t, time.Minute)
	repo := cache.Wrap(NewMemoryReportRepository())

	vehicleID := uuid.New()
	a := testReport(vehicleID, time.Now().UTC())
	b := testReport(vehicleID, time.Now().UTC())
	keep := testReport(uuid.New(), time.Now().UTC())
	for _, r := range []*Report{a, b, keep} {
		require.NoError(t, repo.Create(ctx, r))
	}

	require.NoError(t, repo.DeleteByVehicle(ctx, vehicleID))
	assert.False(t, mr.Exists(reportKey(a.ID)))
	assert.False(t, mr.Exists(reportKey(b.ID)))
	assert.True(t, mr.Exists(reportKey(keep.ID)))

	_, err := repo.GetByID(ctx, a.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestReportCache_FallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestCache(t, time.Minute)

	inner := NewMemoryReportRepository()
	report := testReport(uuid.New(), time.Now().UTC())
	require.NoError(t, inner.Create(ctx, report))

	mr.Close()

	got, err := cache.Wrap(inner).GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
}

func TestReportCache_CorruptEntryIsIgnored(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestCache(t, time.Minute)

	inner := NewMemoryReportRepository()
	report := testReport(uuid.New(), time.Now().UTC())
	require.NoError(t, inner.Create(ctx, report))
	require.NoError(t, mr.Set(reportKey(report.ID), "{not json"))

	got, err := cache.Wrap(inner).GetByID(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.VehicleTitle, got.VehicleTitle)
}

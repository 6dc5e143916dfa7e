//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/logistics-tracker/internal/db"
	"github.com/andreasstove999/logistics-tracker/internal/fixtures"
	"github.com/andreasstove999/logistics-tracker/internal/shipment"
	"github.com/andreasstove999/logistics-tracker/internal/testutil"
)

func startRepository(t *testing.T) (*shipment.PostgresRepository, string) {
	t.Helper()

	dsn := testutil.StartPostgres(t)

	require.NoError(t, db.RunMigrations(dsn, zerolog.Nop()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return shipment.NewPostgresRepository(pool), dsn
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, _ := startRepository(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Second)
	seed := fixtures.Generate(4, now, fixtures.NewRand(11))
	for _, s := range seed {
		require.NoError(t, repo.Create(ctx, s))
	}

	for _, want := range seed {
		got, err := repo.Get(ctx, want.ID)
		require.NoError(t, err)
		require.Equal(t, want.TrackingNumber, got.TrackingNumber)
		require.Equal(t, want.Customer, got.Customer)
		require.Equal(t, want.Origin, got.Origin)
		require.Equal(t, want.Destination, got.Destination)
		require.Equal(t, want.Status, got.Status)
		require.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Millisecond)
		require.Equal(t, want.ActualDelivery == nil, got.ActualDelivery == nil)

		require.Len(t, got.Milestones, len(want.Milestones))
		for i := range want.Milestones {
			require.Equal(t, want.Milestones[i].ID, got.Milestones[i].ID)
			require.Equal(t, want.Milestones[i].Completed, got.Milestones[i].Completed)
			require.Equal(t, want.Milestones[i].Status, got.Milestones[i].Status)
			require.WithinDuration(t, want.Milestones[i].Timestamp, got.Milestones[i].Timestamp, time.Millisecond)
		}
		require.NoError(t, got.Validate())
	}

	_, err := repo.Get(ctx, "missing")
	require.ErrorIs(t, err, shipment.ErrNotFound)
}

func TestRepository_ListKeepsInsertionOrder(t *testing.T) {
	repo, _ := startRepository(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	seed := fixtures.Generate(6, time.Now().UTC().Truncate(time.Second), fixtures.NewRand(5))
	for _, s := range seed {
		require.NoError(t, repo.Create(ctx, s))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(seed))
	for i := range seed {
		require.Equal(t, seed[i].ID, all[i].ID)
		require.Len(t, all[i].Milestones, len(seed[i].Milestones))
	}

	require.Equal(t, shipment.Summarize(seed), shipment.Summarize(all))
}

func TestRepository_CreateConflict(t *testing.T) {
	repo, _ := startRepository(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	s := fixtures.Generate(1, time.Now().UTC(), fixtures.NewRand(1))[0]
	require.NoError(t, repo.Create(ctx, s))

	dup := s.Clone()
	dup.ID = "another-id"
	require.ErrorIs(t, repo.Create(ctx, dup), shipment.ErrConflict)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1, "failed insert must not leave milestones or rows behind")
}

func TestSchemaChecker_AfterMigrations(t *testing.T) {
	_, dsn := startRepository(t)

	checker, err := db.NewSchemaChecker(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = checker.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	version, dirty, err := checker.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, uint(db.LatestVersion), version)
	require.False(t, dirty)
	require.NoError(t, checker.Check(ctx))
}

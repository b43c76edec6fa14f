//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datesafe/verification-backend/internal/domain/verification"
	"github.com/datesafe/verification-backend/internal/testutil/containers"
)

const schema = `
CREATE TABLE IF NOT EXISTS verification_results (
    id          UUID PRIMARY KEY,
    fingerprint TEXT NOT NULL,
    trust_score DOUBLE PRECISION NOT NULL,
    risk_level  TEXT NOT NULL,
    result      JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`

func setupRepo(t *testing.T) *VerificationRepository {
	t.Helper()
	if os.Getenv("CI") == "" && testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	pg, err := containers.NewPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	pool, err := pgxpool.New(ctx, pg.ConnectionString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, schema)
	require.NoError(t, err)

	return NewVerificationRepository(pool)
}

func TestVerificationRepository_StoreAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	result := verification.NewResult()
	result.OverallTrustScore = 62.5
	result.RiskLevel = verification.RiskLow
	result.CriticalWarnings = []string{"photo analysis subsystem failed; its signals were replaced with neutral defaults"}

	require.NoError(t, repo.Store(ctx, "fp-abc", result))

	got, err := repo.GetByID(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.ID, got.ID)
	assert.Equal(t, 62.5, got.OverallTrustScore)
	assert.Equal(t, verification.RiskLow, got.RiskLevel)
	assert.Equal(t, result.CriticalWarnings, got.CriticalWarnings)
}

func TestVerificationRepository_DuplicateID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	result := verification.NewResult()
	require.NoError(t, repo.Store(ctx, "fp-dup", result))

	err := repo.Store(ctx, "fp-dup", result)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestVerificationRepository_GetMissing(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestVerificationRepository_ListRecent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		r := verification.NewResult()
		r.OverallTrustScore = float64(30 + i*10)
		r.RiskLevel = verification.RiskMedium
		r.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Store(ctx, "fp-list", r))
	}

	summaries, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Newest first.
	assert.Equal(t, 50.0, summaries[0].TrustScore)
	assert.Equal(t, 40.0, summaries[1].TrustScore)
}

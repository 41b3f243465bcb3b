package rankings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratewise/biz-trust-meter/internal/database"
	"github.com/ratewise/biz-trust-meter/internal/scoring"
)

func testService(t *testing.T) (*Service, *database.Repository) {
	t.Helper()

	db, err := database.NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := database.NewRepository(db)
	return NewService(repo), repo
}

func seedSnapshots(t *testing.T, repo *database.Repository) {
	t.Helper()

	require.NoError(t, repo.SaveSnapshots([]scoring.ScoreReport{
		{Name: "top-shop", Category: "retail", TrustScore: 92, FraudConfidence: 0.1, RatingCount: 40},
		{Name: "mid-shop", Category: "retail", TrustScore: 61, FraudConfidence: 0.3, RatingCount: 22},
		{Name: "best-bistro", Category: "restaurants", TrustScore: 88, FraudConfidence: 0.2, RatingCount: 15},
	}))
}

func TestGetRankings(t *testing.T) {
	svc, repo := testService(t)
	seedSnapshots(t, repo)

	response, err := svc.GetRankings("retail", 10)
	require.NoError(t, err)
	require.Len(t, response.Entries, 2)

	assert.Equal(t, 1, response.Entries[0].Rank)
	assert.Equal(t, "top-shop", response.Entries[0].BusinessName)
	assert.Equal(t, 2, response.Entries[1].Rank)
	assert.Equal(t, "mid-shop", response.Entries[1].BusinessName)
	assert.Equal(t, "retail", response.Category)
}

func TestGetRankingsAllCategories(t *testing.T) {
	svc, repo := testService(t)
	seedSnapshots(t, repo)

	response, err := svc.GetRankings("", 10)
	require.NoError(t, err)
	assert.Len(t, response.Entries, 3)
	assert.Equal(t, "top-shop", response.Entries[0].BusinessName)
}

func TestGetRankingsCachesResults(t *testing.T) {
	svc, repo := testService(t)
	seedSnapshots(t, repo)

	first, err := svc.GetRankings("retail", 10)
	require.NoError(t, err)

	// New snapshots don't show up until the cache is invalidated
	require.NoError(t, repo.SaveSnapshots([]scoring.ScoreReport{
		{Name: "new-shop", Category: "retail", TrustScore: 99},
	}))

	cached, err := svc.GetRankings("retail", 10)
	require.NoError(t, err)
	assert.Equal(t, len(first.Entries), len(cached.Entries))

	svc.Invalidate()

	fresh, err := svc.GetRankings("retail", 10)
	require.NoError(t, err)
	assert.Len(t, fresh.Entries, 3)
	assert.Equal(t, "new-shop", fresh.Entries[0].BusinessName)
}

func TestGetRankingsNormalizesLimit(t *testing.T) {
	svc, repo := testService(t)
	seedSnapshots(t, repo)

	response, err := svc.GetRankings("retail", -5)
	require.NoError(t, err)
	assert.Len(t, response.Entries, 2)
}

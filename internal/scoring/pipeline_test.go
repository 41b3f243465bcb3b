package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratewise/biz-trust-meter/internal/errors"
	"github.com/ratewise/biz-trust-meter/internal/types"
)

func testDataset(t *testing.T) *Dataset {
	t.Helper()

	ds, err := LoadDataset([]types.Business{
		businessWithScores("five-star-mill", 5, 5, 5, 5, 5),
		businessWithScores("honest-diner", 1, 2, 3, 4, 5),
		businessWithScores("quiet-cafe", 3, 3, 4),
		{Name: "no-reviews", Category: "restaurants"},
	})
	require.NoError(t, err)
	return ds
}

func TestLoadDataset(t *testing.T) {
	ds := testDataset(t)

	assert.Equal(t, 4, ds.Len())
	// 25 + 15 + 10 over 13 ratings
	assert.InDelta(t, 50.0/13.0, ds.GlobalAverage(), 1e-9)

	_, ok := ds.Business("honest-diner")
	assert.True(t, ok)
	_, ok = ds.Business("unknown")
	assert.False(t, ok)
}

func TestLoadDatasetRejectsEmptyCorpus(t *testing.T) {
	_, err := LoadDataset([]types.Business{{Name: "a"}, {Name: "b"}})
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientData(err))
}

func TestLoadDatasetRejectsDuplicateNames(t *testing.T) {
	_, err := LoadDataset([]types.Business{
		businessWithScores("same", 4),
		businessWithScores("same", 5),
	})
	require.Error(t, err)
	assert.Equal(t, errors.CategoryValidation, errors.ToAppError(err).Category)
}

func TestScoreBusiness(t *testing.T) {
	ds := testDataset(t)

	report, err := ds.ScoreBusiness("honest-diner")
	require.NoError(t, err)

	assert.Equal(t, "honest-diner", report.Name)
	assert.Equal(t, 5, report.RatingCount)
	assert.InDelta(t, 3.0, report.RawAverage, 1e-9)
	assert.InDelta(t, 1.0, report.EntropyNormalized, 1e-9)
	assert.GreaterOrEqual(t, report.TrustScore, 0)
	assert.LessOrEqual(t, report.TrustScore, 100)
	assert.GreaterOrEqual(t, report.FraudConfidence, 0.0)
	assert.LessOrEqual(t, report.FraudConfidence, 1.0)
	assert.Greater(t, report.Volatility, 0.0)
}

func TestScoreBusinessZeroRatings(t *testing.T) {
	ds := testDataset(t)

	report, err := ds.ScoreBusiness("no-reviews")
	require.NoError(t, err, "a zero-rating business is a defined degenerate case, not an error")

	assert.Equal(t, 0, report.TrustScore)
	assert.Equal(t, 0.0, report.RawAverage)
	assert.Equal(t, 0.0, report.EntropyNormalized)
	assert.Equal(t, 0.0, report.Volatility)
	assert.Equal(t, 0.0, report.FraudConfidence)
}

func TestScoreBusinessUnknown(t *testing.T) {
	ds := testDataset(t)

	_, err := ds.ScoreBusiness("nowhere")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryNotFound, errors.ToAppError(err).Category)
}

func TestScoreBusinessIdempotent(t *testing.T) {
	ds := testDataset(t)

	first, err := ds.ScoreBusiness("five-star-mill")
	require.NoError(t, err)
	second, err := ds.ScoreBusiness("five-star-mill")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFeaturesRequirePriorTrustEvaluation(t *testing.T) {
	ds := testDataset(t)

	_, err := ds.Features("quiet-cafe")
	require.Error(t, err)
	assert.True(t, errors.IsEvaluationOrder(err))

	_, err = ds.FraudConfidence("quiet-cafe")
	require.Error(t, err)
	assert.True(t, errors.IsEvaluationOrder(err))

	_, err = ds.EvaluateTrust("quiet-cafe")
	require.NoError(t, err)

	features, err := ds.Features("quiet-cafe")
	require.NoError(t, err)
	confidence, err := ds.FraudConfidence("quiet-cafe")
	require.NoError(t, err)
	assert.InDelta(t, SimulatedFraudScore(features), confidence, 1e-12)
}

func TestScoreAllSortsByTrustScore(t *testing.T) {
	ds := testDataset(t)

	reports, err := ds.ScoreAll()
	require.NoError(t, err)
	require.Len(t, reports, 4)

	for i := 1; i < len(reports); i++ {
		if reports[i-1].TrustScore == reports[i].TrustScore {
			assert.Less(t, reports[i-1].Name, reports[i].Name)
		} else {
			assert.Greater(t, reports[i-1].TrustScore, reports[i].TrustScore)
		}
	}

	assert.Equal(t, "no-reviews", reports[len(reports)-1].Name, "zero-rating business sorts last")
}

package scoring

import (
	"github.com/ratewise/biz-trust-meter/internal/errors"
	"github.com/ratewise/biz-trust-meter/internal/types"
)

// GlobalAverage computes the mean rating score across every rating of every
// business in the dataset. The Bayesian blend in EvaluateTrust uses it as the
// prior, so it must be recomputed whenever the dataset changes.
//
// A dataset with zero ratings in total has no defined mean; that case returns
// an insufficient-data error instead of NaN.
func GlobalAverage(businesses []types.Business) (float64, error) {
	sum := 0.0
	count := 0

	for _, b := range businesses {
		for _, r := range b.Ratings {
			sum += float64(r.Score)
			count++
		}
	}

	if count == 0 {
		return 0, errors.NewInsufficientDataError("global average")
	}

	return sum / float64(count), nil
}

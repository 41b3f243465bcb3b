package scoring

import (
	"math"

	"github.com/ratewise/biz-trust-meter/internal/errors"
	"github.com/ratewise/biz-trust-meter/internal/types"
)

// Volatility returns the population standard deviation of a business's rating
// scores. Large swings can indicate incentivized or coordinated review bursts
// rather than organic sentiment drift.
//
// An empty rating set has no defined mean, so this returns an
// insufficient-data error instead of NaN.
func Volatility(b types.Business) (float64, error) {
	v := float64(len(b.Ratings))
	if v == 0 {
		return 0, errors.NewInsufficientDataError("volatility")
	}

	sum := 0.0
	for _, r := range b.Ratings {
		sum += float64(r.Score)
	}
	mean := sum / v

	variance := 0.0
	for _, r := range b.Ratings {
		d := float64(r.Score) - mean
		variance += d * d
	}
	variance /= v

	return math.Sqrt(variance), nil
}

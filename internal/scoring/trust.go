package scoring

import (
	"math"

	"github.com/ratewise/biz-trust-meter/internal/types"
)

const (
	// bayesPriorWeight is the fixed prior m in the Bayesian blend. With few
	// ratings the blend leans on the corpus average, so a handful of planted
	// reviews cannot drag the score far.
	bayesPriorWeight = 15.0

	// Final score mix: smoothed average carries 80 points, distribution
	// entropy the remaining 20.
	smoothedShare = 80.0
	entropyShare  = 20.0

	ratingBuckets = 5
)

// TrustResult holds the derived trust fields for one business. It is the
// explicit hand-off between trust evaluation and the downstream feature and
// fraud stages.
type TrustResult struct {
	Score             int     `json:"score"`
	RawAverage        float64 `json:"raw_average"`
	SmoothedAverage   float64 `json:"smoothed_average"`
	EntropyNormalized float64 `json:"entropy_normalized"`
}

// EvaluateTrust scores a business against the corpus-wide average rating.
//
// The smoothed average is (v/(v+m))*R + (m/(v+m))*globalAverage with v the
// rating count and m the fixed prior weight. Entropy is Shannon entropy of
// the 1..5 score histogram normalized by ln(5), so ratings spread evenly
// across all five stars land at 1 and a single-bucket pile lands at 0.
//
// A business with zero ratings gets the zero result. That is the documented
// degenerate case, not an error.
func EvaluateTrust(b types.Business, globalAverage float64) TrustResult {
	v := float64(len(b.Ratings))
	if v == 0 {
		return TrustResult{}
	}

	sum := 0.0
	var hist [ratingBuckets]int
	for _, r := range b.Ratings {
		sum += float64(r.Score)
		if r.Score >= 1 && r.Score <= ratingBuckets {
			hist[r.Score-1]++
		}
	}

	raw := sum / v
	smoothed := (v/(v+bayesPriorWeight))*raw + (bayesPriorWeight/(v+bayesPriorWeight))*globalAverage

	entropy := 0.0
	for _, n := range hist {
		if n == 0 {
			continue
		}
		p := float64(n) / v
		entropy -= p * math.Log(p)
	}
	entropyNorm := entropy / math.Log(ratingBuckets)

	score := math.Round((smoothed/5.0)*smoothedShare + entropyNorm*entropyShare)

	return TrustResult{
		Score:             int(score),
		RawAverage:        raw,
		SmoothedAverage:   smoothed,
		EntropyNormalized: entropyNorm,
	}
}

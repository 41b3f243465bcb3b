package scoring

import (
	"sort"

	"github.com/ratewise/biz-trust-meter/internal/errors"
	"github.com/ratewise/biz-trust-meter/internal/types"
)

// recentWindow is the number of chronologically newest ratings the
// recent-five-star ratio looks at. A short window isolates rating-inflation
// bursts that a lifetime average would dilute.
const recentWindow = 10

// FeatureVector is the ephemeral input to the fraud confidence formula.
type FeatureVector struct {
	FiveStarRatio   float64 `json:"five_star_ratio"`
	Volatility      float64 `json:"volatility"`
	Entropy         float64 `json:"entropy"`
	RecentFiveRatio float64 `json:"recent_five_ratio"`
}

// ExtractFeatures derives the fraud-model features for a business. The trust
// result is passed explicitly rather than read from a cache on the business,
// so the caller cannot get stale entropy by calling out of order.
func ExtractFeatures(b types.Business, trust TrustResult) (FeatureVector, error) {
	v := len(b.Ratings)
	if v == 0 {
		return FeatureVector{}, errors.NewInsufficientDataError("feature extraction")
	}

	vol, err := Volatility(b)
	if err != nil {
		return FeatureVector{}, err
	}

	fiveCount := 0
	for _, r := range b.Ratings {
		if r.Score == 5 {
			fiveCount++
		}
	}

	// Sort a copy ascending by date; equal dates keep their ingestion order.
	sorted := append([]types.Rating(nil), b.Ratings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	window := sorted
	if v > recentWindow {
		window = sorted[v-recentWindow:]
	}

	recentFive := 0
	for _, r := range window {
		if r.Score == 5 {
			recentFive++
		}
	}

	return FeatureVector{
		FiveStarRatio:   float64(fiveCount) / float64(v),
		Volatility:      vol,
		Entropy:         trust.EntropyNormalized,
		RecentFiveRatio: float64(recentFive) / float64(len(window)),
	}, nil
}

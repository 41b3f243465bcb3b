package scoring

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ratewise/biz-trust-meter/internal/errors"
	"github.com/ratewise/biz-trust-meter/internal/types"
)

// Dataset is a loaded batch of businesses together with the corpus-wide
// statistics the trust model depends on. The business data is immutable after
// load; trust results are memoized per business so repeated scoring reuses
// them instead of recomputing.
type Dataset struct {
	businesses []types.Business
	index      map[string]int
	globalAvg  float64

	mu        sync.RWMutex
	evaluated map[string]TrustResult
}

// ScoreReport is the full read-only result the presentation layer consumes
// to render one business card.
type ScoreReport struct {
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	TrustScore        int     `json:"trust_score"`
	FraudConfidence   float64 `json:"fraud_confidence"`
	RawAverage        float64 `json:"raw_average"`
	EntropyNormalized float64 `json:"entropy_normalized"`
	Volatility        float64 `json:"volatility"`
	RatingCount       int     `json:"rating_count"`
}

// LoadDataset validates and indexes a batch of businesses and computes the
// global average rating once. Business names are the identity key, so
// duplicates are rejected. A dataset with zero ratings in total cannot seed
// the Bayesian prior and is an insufficient-data error.
func LoadDataset(businesses []types.Business) (*Dataset, error) {
	globalAvg, err := GlobalAverage(businesses)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(businesses))
	for i, b := range businesses {
		if b.Name == "" {
			return nil, errors.NewValidationError("business name cannot be empty")
		}
		if _, dup := index[b.Name]; dup {
			return nil, errors.NewValidationError(fmt.Sprintf("duplicate business name %q", b.Name))
		}
		index[b.Name] = i
	}

	return &Dataset{
		businesses: businesses,
		index:      index,
		globalAvg:  globalAvg,
		evaluated:  make(map[string]TrustResult, len(businesses)),
	}, nil
}

// GlobalAverage returns the corpus-wide mean rating computed at load time.
func (d *Dataset) GlobalAverage() float64 { return d.globalAvg }

// Len returns the number of businesses in the dataset.
func (d *Dataset) Len() int { return len(d.businesses) }

// Business looks up a business by name.
func (d *Dataset) Business(name string) (types.Business, bool) {
	i, ok := d.index[name]
	if !ok {
		return types.Business{}, false
	}
	return d.businesses[i], true
}

// Businesses returns the loaded businesses in load order.
func (d *Dataset) Businesses() []types.Business { return d.businesses }

// EvaluateTrust runs the trust model for one business and memoizes the
// result. Re-evaluation with unchanged ratings is idempotent, so the memo is
// a pure cache.
func (d *Dataset) EvaluateTrust(name string) (TrustResult, error) {
	b, ok := d.Business(name)
	if !ok {
		return TrustResult{}, errors.NewNotFoundError("business", name)
	}

	d.mu.RLock()
	res, done := d.evaluated[name]
	d.mu.RUnlock()
	if done {
		return res, nil
	}

	res = EvaluateTrust(b, d.globalAvg)

	d.mu.Lock()
	d.evaluated[name] = res
	d.mu.Unlock()

	return res, nil
}

// trustFor returns the memoized trust result without computing it.
func (d *Dataset) trustFor(name string) (TrustResult, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	res, ok := d.evaluated[name]
	return res, ok
}

// Features extracts the fraud-model features for a business. The trust model
// must have run first; asking earlier is an evaluation-order error rather
// than a silent read of undefined fields.
func (d *Dataset) Features(name string) (FeatureVector, error) {
	b, ok := d.Business(name)
	if !ok {
		return FeatureVector{}, errors.NewNotFoundError("business", name)
	}

	trust, done := d.trustFor(name)
	if !done {
		return FeatureVector{}, errors.NewEvaluationOrderError(name)
	}

	return ExtractFeatures(b, trust)
}

// FraudConfidence evaluates the fraud formula for a business. Same ordering
// contract as Features.
func (d *Dataset) FraudConfidence(name string) (float64, error) {
	f, err := d.Features(name)
	if err != nil {
		return 0, err
	}
	return SimulatedFraudScore(f), nil
}

// ScoreBusiness runs the full pipeline for one business in dependency order:
// trust evaluation, then feature extraction, then the fraud formula.
//
// A business with zero ratings yields the degenerate report with every field
// zero. The trust score of 0 is defined behavior; volatility and fraud
// confidence have no defined value there, and the report carries 0 for both
// rather than failing the whole card.
func (d *Dataset) ScoreBusiness(name string) (ScoreReport, error) {
	b, ok := d.Business(name)
	if !ok {
		return ScoreReport{}, errors.NewNotFoundError("business", name)
	}

	trust, err := d.EvaluateTrust(name)
	if err != nil {
		return ScoreReport{}, err
	}

	report := ScoreReport{
		Name:              b.Name,
		Category:          b.Category,
		TrustScore:        trust.Score,
		RawAverage:        trust.RawAverage,
		EntropyNormalized: trust.EntropyNormalized,
		RatingCount:       len(b.Ratings),
	}

	if len(b.Ratings) == 0 {
		return report, nil
	}

	features, err := ExtractFeatures(b, trust)
	if err != nil {
		return ScoreReport{}, err
	}

	report.Volatility = features.Volatility
	report.FraudConfidence = SimulatedFraudScore(features)

	return report, nil
}

// ScoreAll scores every business and returns the reports ordered by trust
// score descending, name ascending on ties.
func (d *Dataset) ScoreAll() ([]ScoreReport, error) {
	reports := make([]ScoreReport, 0, len(d.businesses))
	for _, b := range d.businesses {
		report, err := d.ScoreBusiness(b.Name)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].TrustScore != reports[j].TrustScore {
			return reports[i].TrustScore > reports[j].TrustScore
		}
		return reports[i].Name < reports[j].Name
	})

	return reports, nil
}

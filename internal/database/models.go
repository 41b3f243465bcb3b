package database

import (
	"time"

	"github.com/google/uuid"

	"github.com/ratewise/biz-trust-meter/internal/scoring"
)

// ScoreSnapshot is one persisted evaluation of a business. Snapshots
// accumulate over dataset reloads, giving each business a score history.
type ScoreSnapshot struct {
	ID                string    `json:"id" db:"id"`
	BusinessName      string    `json:"business_name" db:"business_name"`
	Category          string    `json:"category" db:"category"`
	TrustScore        int       `json:"trust_score" db:"trust_score"`
	FraudConfidence   float64   `json:"fraud_confidence" db:"fraud_confidence"`
	RawAverage        float64   `json:"raw_average" db:"raw_average"`
	EntropyNormalized float64   `json:"entropy_normalized" db:"entropy_normalized"`
	Volatility        float64   `json:"volatility" db:"volatility"`
	RatingCount       int       `json:"rating_count" db:"rating_count"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// NewScoreSnapshot creates a snapshot from a score report with a generated ID
func NewScoreSnapshot(report scoring.ScoreReport) *ScoreSnapshot {
	return &ScoreSnapshot{
		ID:                uuid.New().String(),
		BusinessName:      report.Name,
		Category:          report.Category,
		TrustScore:        report.TrustScore,
		FraudConfidence:   report.FraudConfidence,
		RawAverage:        report.RawAverage,
		EntropyNormalized: report.EntropyNormalized,
		Volatility:        report.Volatility,
		RatingCount:       report.RatingCount,
		CreatedAt:         time.Now(),
	}
}

package database

import (
	"fmt"

	"github.com/ratewise/biz-trust-meter/internal/scoring"
)

// Repository handles database operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SaveSnapshot persists one evaluated score report
func (r *Repository) SaveSnapshot(report scoring.ScoreReport) (*ScoreSnapshot, error) {
	snapshot := NewScoreSnapshot(report)

	_, err := r.db.Exec(`
		INSERT INTO score_snapshots (
			id, business_name, category, trust_score, fraud_confidence,
			raw_average, entropy_normalized, volatility, rating_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, snapshot.ID, snapshot.BusinessName, snapshot.Category, snapshot.TrustScore,
		snapshot.FraudConfidence, snapshot.RawAverage, snapshot.EntropyNormalized,
		snapshot.Volatility, snapshot.RatingCount, snapshot.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return snapshot, nil
}

// SaveSnapshots persists a batch of reports in one transaction
func (r *Repository) SaveSnapshots(reports []scoring.ScoreReport) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO score_snapshots (
			id, business_name, category, trust_score, fraud_confidence,
			raw_average, entropy_normalized, volatility, rating_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, report := range reports {
		snapshot := NewScoreSnapshot(report)
		if _, err := stmt.Exec(
			snapshot.ID, snapshot.BusinessName, snapshot.Category, snapshot.TrustScore,
			snapshot.FraudConfidence, snapshot.RawAverage, snapshot.EntropyNormalized,
			snapshot.Volatility, snapshot.RatingCount, snapshot.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to save snapshot for %q: %w", report.Name, err)
		}
	}

	return tx.Commit()
}

// History returns the most recent snapshots for one business, newest first
func (r *Repository) History(businessName string, limit int) ([]ScoreSnapshot, error) {
	rows, err := r.db.Query(`
		SELECT id, business_name, category, trust_score, fraud_confidence,
		       raw_average, entropy_normalized, volatility, rating_count, created_at
		FROM score_snapshots
		WHERE business_name = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, businessName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// TopByCategory returns the latest snapshot per business in a category,
// ordered by trust score descending. An empty category matches every
// business.
func (r *Repository) TopByCategory(category string, limit int) ([]ScoreSnapshot, error) {
	rows, err := r.db.Query(`
		SELECT s.id, s.business_name, s.category, s.trust_score, s.fraud_confidence,
		       s.raw_average, s.entropy_normalized, s.volatility, s.rating_count, s.created_at
		FROM score_snapshots s
		INNER JOIN (
			SELECT business_name, MAX(created_at) AS latest
			FROM score_snapshots
			WHERE (? = '' OR category = ?)
			GROUP BY business_name
		) latest ON s.business_name = latest.business_name AND s.created_at = latest.latest
		WHERE (? = '' OR s.category = ?)
		ORDER BY s.trust_score DESC, s.business_name ASC
		LIMIT ?
	`, category, category, category, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanSnapshots(rows rowScanner) ([]ScoreSnapshot, error) {
	snapshots := make([]ScoreSnapshot, 0)
	for rows.Next() {
		var s ScoreSnapshot
		if err := rows.Scan(
			&s.ID, &s.BusinessName, &s.Category, &s.TrustScore, &s.FraudConfidence,
			&s.RawAverage, &s.EntropyNormalized, &s.Volatility, &s.RatingCount, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

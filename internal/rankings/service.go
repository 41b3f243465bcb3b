package rankings

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ratewise/biz-trust-meter/internal/database"
)

// Entry is one ranked business in a category
type Entry struct {
	Rank            int     `json:"rank"`
	BusinessName    string  `json:"business_name"`
	Category        string  `json:"category"`
	TrustScore      int     `json:"trust_score"`
	FraudConfidence float64 `json:"fraud_confidence"`
	RatingCount     int     `json:"rating_count"`
}

// Response is the payload for ranking queries
type Response struct {
	Entries     []Entry   `json:"entries"`
	Total       int       `json:"total"`
	Category    string    `json:"category"`
	GeneratedAt time.Time `json:"generated_at"`
}

type cacheItem struct {
	response  *Response
	expiresAt time.Time
}

// Service serves category rankings from stored score snapshots, reusing the
// scores computed at dataset load instead of re-running the pipeline.
type Service struct {
	repo *database.Repository

	mu    sync.RWMutex
	cache map[string]cacheItem
	ttl   time.Duration
}

// NewService creates a new rankings service
func NewService(repo *database.Repository) *Service {
	return &Service{
		repo:  repo,
		cache: make(map[string]cacheItem),
		ttl:   15 * time.Minute,
	}
}

// GetRankings returns the top trusted businesses for a category. Category ""
// ranks across the whole dataset.
func (s *Service) GetRankings(category string, limit int) (*Response, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	key := fmt.Sprintf("%s:%d", category, limit)

	s.mu.RLock()
	item, ok := s.cache[key]
	s.mu.RUnlock()
	if ok && time.Now().Before(item.expiresAt) {
		return item.response, nil
	}

	snapshots, err := s.repo.TopByCategory(category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load rankings: %w", err)
	}

	entries := make([]Entry, len(snapshots))
	for i, snap := range snapshots {
		entries[i] = Entry{
			Rank:            i + 1,
			BusinessName:    snap.BusinessName,
			Category:        snap.Category,
			TrustScore:      snap.TrustScore,
			FraudConfidence: snap.FraudConfidence,
			RatingCount:     snap.RatingCount,
		}
	}

	response := &Response{
		Entries:     entries,
		Total:       len(entries),
		Category:    category,
		GeneratedAt: time.Now(),
	}

	s.mu.Lock()
	s.cache[key] = cacheItem{response: response, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	slog.Debug("Rankings computed", "category", category, "entries", len(entries))

	return response, nil
}

// Invalidate drops every cached ranking. Called after a dataset reload.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cacheItem)
}

// CacheStats reports the ranking cache state
func (s *Service) CacheStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"cached_queries": len(s.cache),
		"ttl_seconds":    s.ttl.Seconds(),
	}
}

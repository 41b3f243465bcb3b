package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ratewise/biz-trust-meter/internal/errors"
	"github.com/ratewise/biz-trust-meter/internal/ingest"
	"github.com/ratewise/biz-trust-meter/internal/security"
	"github.com/ratewise/biz-trust-meter/internal/types"
)

// handleLoadDataset loads or replaces the active dataset. Replacing resets
// the global statistics and drops every cached score response.
func (s *server) handleLoadDataset() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.LoadDatasetRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.NewValidationError("request body is not a valid dataset", err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		businesses, err := ingest.ConvertBusinesses(req.Businesses)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		if err := s.installDataset(businesses); err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		ds, _ := s.currentDataset()
		c.JSON(http.StatusOK, gin.H{
			"businesses":     ds.Len(),
			"global_average": ds.GlobalAverage(),
		})
	}
}

// handleListBusinesses returns scored reports for every business, sorted by
// trust score, with an optional category filter.
func (s *server) handleListBusinesses() gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, ok := s.currentDataset()
		if !ok {
			appErr := errors.NewValidationError("no dataset loaded")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		reports, err := ds.ScoreAll()
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		category := c.Query("category")
		limit := parseLimit(c.Query("limit"), len(reports))

		results := make([]scoredBusiness, 0, limit)
		for _, report := range reports {
			if category != "" && report.Category != category {
				continue
			}
			results = append(results, presentReport(report))
			if len(results) >= limit {
				break
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"businesses": results,
			"total":      len(results),
		})
	}
}

// handleScoreBusiness runs the full pipeline for one business
func (s *server) handleScoreBusiness(sec *security.SecurityMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		if err := sec.ValidateBusinessName(name); err != nil {
			appErr := errors.NewValidationError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		ds, ok := s.currentDataset()
		if !ok {
			appErr := errors.NewValidationError("no dataset loaded")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		start := time.Now()
		report, err := ds.ScoreBusiness(name)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		s.metrics.IncrementEvaluations()
		s.logger.EvaluationLogger(report.Name, report.TrustScore, report.FraudConfidence,
			report.RatingCount, time.Since(start), false)

		c.JSON(http.StatusOK, presentReport(report))
	}
}

// handleHistory returns persisted score snapshots for one business
func (s *server) handleHistory(sec *security.SecurityMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		if err := sec.ValidateBusinessName(name); err != nil {
			appErr := errors.NewValidationError(err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		limit := parseLimit(c.Query("limit"), 50)

		snapshots, err := s.repo.History(name, limit)
		if err != nil {
			appErr := errors.NewInternalError("failed to load score history", err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"business":  name,
			"snapshots": snapshots,
			"total":     len(snapshots),
		})
	}
}

// handleRankings serves category rankings from the snapshot store
func (s *server) handleRankings(category string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.serveRankings(c, category)
	}
}

func (s *server) handleRankingsByParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.serveRankings(c, c.Param("category"))
	}
}

func (s *server) serveRankings(c *gin.Context, category string) {
	limit := parseLimit(c.Query("limit"), 50)

	response, err := s.rankings.GetRankings(category, limit)
	if err != nil {
		appErr := errors.NewInternalError("failed to load rankings", err)
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
		return
	}

	c.JSON(http.StatusOK, response)
}

func parseLimit(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 100 {
		return def
	}
	return n
}

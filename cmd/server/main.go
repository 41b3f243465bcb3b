package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ratewise/biz-trust-meter/internal/cache"
	"github.com/ratewise/biz-trust-meter/internal/database"
	"github.com/ratewise/biz-trust-meter/internal/errors"
	"github.com/ratewise/biz-trust-meter/internal/ingest"
	"github.com/ratewise/biz-trust-meter/internal/monitoring"
	"github.com/ratewise/biz-trust-meter/internal/rankings"
	"github.com/ratewise/biz-trust-meter/internal/scoring"
	"github.com/ratewise/biz-trust-meter/internal/security"
	"github.com/ratewise/biz-trust-meter/internal/types"
)

// presentation thresholds the score contract must satisfy
const (
	greenThreshold     = 80
	amberThreshold     = 50
	fraudFlagThreshold = 0.75
)

// scoredBusiness is a score report annotated with the advisory presentation
// fields the card renderer consumes.
type scoredBusiness struct {
	scoring.ScoreReport
	Band      string `json:"band"`
	FraudFlag bool   `json:"fraud_flag"`
}

func presentReport(report scoring.ScoreReport) scoredBusiness {
	return scoredBusiness{
		ScoreReport: report,
		Band:        scoreBand(report.TrustScore),
		FraudFlag:   report.FraudConfidence > fraudFlagThreshold,
	}
}

func scoreBand(trustScore int) string {
	switch {
	case trustScore >= greenThreshold:
		return "green"
	case trustScore >= amberThreshold:
		return "amber"
	default:
		return "red"
	}
}

// server holds the mutable dataset state behind a lock; everything else the
// handlers touch is internally synchronized.
type server struct {
	mu      sync.RWMutex
	dataset *scoring.Dataset

	repo     *database.Repository
	rankings *rankings.Service
	cache    *cache.Cache
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
}

func (s *server) currentDataset() (*scoring.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset, s.dataset != nil
}

func (s *server) replaceDataset(ds *scoring.Dataset) {
	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()

	s.cache.Clear()
	s.rankings.Invalidate()
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dataDir := getEnvOrDefault("DATA_DIR", "./data")
	datasetPath := os.Getenv("DATASET_PATH")
	port := getEnvOrDefault("PORT", "8080")
	cacheTTL := getEnvDuration("CACHE_TTL", 15*time.Minute)

	db, err := database.NewDB(dataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	srv := &server{
		repo:     repo,
		rankings: rankings.NewService(repo),
		cache:    cache.NewCache(cacheTTL),
		metrics:  monitoring.NewMetrics(),
		logger:   monitoring.NewLogger(),
	}

	// Optional bootstrap dataset from disk
	if datasetPath != "" {
		if err := srv.loadDatasetFromFile(datasetPath); err != nil {
			slog.Error("Failed to load bootstrap dataset", "path", datasetPath, "error", err)
			os.Exit(1)
		}
	}

	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(srv.metrics, srv.logger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	securityConfig := security.DefaultSecurityConfig()
	securityMiddleware := security.NewSecurityMiddleware(securityConfig)
	r.Use(security.SecurityHeadersMiddleware())
	r.Use(securityMiddleware.RequestTimeout)
	r.Use(securityMiddleware.ValidateContentType)
	r.Use(securityMiddleware.RateLimitByIP)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = securityConfig.AllowedOrigins
	r.Use(cors.New(corsConfig))

	r.Use(srv.cache.Middleware(srv.metrics))

	r.GET("/health", func(c *gin.Context) {
		_, loaded := srv.currentDataset()
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"dataset_loaded": loaded,
			"timestamp":      time.Now().Format(time.RFC3339),
			"version":        "1.0.0",
		})
	})

	r.POST("/dataset", srv.handleLoadDataset())
	r.GET("/businesses", srv.handleListBusinesses())
	r.GET("/businesses/:name/score", srv.handleScoreBusiness(securityMiddleware))
	r.GET("/businesses/:name/history", srv.handleHistory(securityMiddleware))
	r.GET("/rankings", srv.handleRankings(""))
	r.GET("/rankings/:category", srv.handleRankingsByParam())

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, srv.metrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"responses": srv.cache.Stats(),
			"rankings":  srv.rankings.CacheStats(),
		})
	})

	r.GET("/pools/database", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"pool":  "database",
			"stats": db.GetPoolStats(),
		})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	httpSrv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// loadDatasetFromFile loads and scores a dataset from a JSON file on disk
func (s *server) loadDatasetFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	businesses, err := ingest.ParseDataset(f)
	if err != nil {
		return err
	}

	return s.installDataset(businesses)
}

// installDataset builds the scoring dataset, swaps it in as the active one,
// and persists a snapshot batch for the history and rankings endpoints.
func (s *server) installDataset(businesses []types.Business) error {
	start := time.Now()

	ds, err := scoring.LoadDataset(businesses)
	if err != nil {
		return err
	}

	reports, err := ds.ScoreAll()
	if err != nil {
		return err
	}

	s.replaceDataset(ds)
	s.metrics.IncrementDatasetLoads()

	ratingCount := 0
	for _, b := range businesses {
		ratingCount += len(b.Ratings)
	}
	s.logger.DatasetLogger(len(businesses), ratingCount, ds.GlobalAverage(), time.Since(start))

	// Snapshot persistence is off the request path
	go func() {
		if err := s.repo.SaveSnapshots(reports); err != nil {
			slog.Error("Failed to persist score snapshots", "error", err)
		}
	}()

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

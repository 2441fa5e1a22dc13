// Package api exposes the assessment pipeline over HTTP.
package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Skufu/bpfuel/internal/bp"
	"github.com/Skufu/bpfuel/internal/metrics"
	"github.com/Skufu/bpfuel/internal/recommend"
	"github.com/Skufu/bpfuel/internal/store"
)

const defaultMaxBodyBytes = 10 << 20

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// AssessmentStore persists completed assessments.
type AssessmentStore interface {
	Save(ctx context.Context, a *store.Assessment) error
	Get(ctx context.Context, id uuid.UUID) (store.Assessment, error)
}

// Server holds the handler dependencies. DB and Store stay nil when the
// database is disabled; everything else except Metrics and Limiter is
// required.
type Server struct {
	Estimator bp.Estimator
	Detector  bp.AccessoryDetector
	Rand      bp.Source
	Provider  *recommend.Provider
	DB        HealthChecker
	Store     AssessmentStore
	Metrics   *metrics.Metrics
	Limiter   *rate.Limiter
	Log       zerolog.Logger

	MaxBodyBytes int64
}

// NewLimiter builds the token bucket shared by the recommendation routes.
// A non-positive rate disables limiting.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
}

func NewRouter(s *Server) *gin.Engine {
	maxBody := s.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	router := gin.New()
	router.Use(
		RequestID(),
		RequestLogger(s.Log),
		gin.Recovery(),
		s.Metrics.Middleware(),
		limitBodySize(maxBody),
		cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", HeaderRequestID},
			ExposeHeaders: []string{HeaderRequestID},
			MaxAge:        12 * time.Hour,
		}),
	)

	router.GET("/healthz", s.healthz)
	router.GET("/readyz", s.readyz)
	router.GET("/metrics", s.Metrics.Handler())

	api := router.Group("/api")
	api.POST("/questionnaire", s.submitQuestionnaire)
	api.POST("/bp/estimate", s.estimate)
	api.POST("/bp/classify", s.classify)
	api.GET("/assessments/:id", s.getAssessment)

	limited := api.Group("", RateLimit(s.Limiter))
	limited.POST("/recommendations", s.recommendations)
	limited.POST("/assessments", s.createAssessment)

	return router
}

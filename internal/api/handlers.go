package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Skufu/bpfuel/internal/bp"
	"github.com/Skufu/bpfuel/internal/questionnaire"
	"github.com/Skufu/bpfuel/internal/recommend"
	"github.com/Skufu/bpfuel/internal/store"
)

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) readyz(c *gin.Context) {
	if s.DB == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled", "recommender": s.Provider.Backend()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.DB.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"db":     fmt.Sprintf("unhealthy: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok", "recommender": s.Provider.Backend()})
}

type questionnaireResponse struct {
	Questionnaire questionnaire.Record `json:"questionnaire"`
	Tips          []string             `json:"tips"`
}

func (s *Server) submitQuestionnaire(c *gin.Context) {
	var in questionnaire.Record
	if err := c.ShouldBindJSON(&in); err != nil {
		abortBindError(c, err)
		return
	}
	rec, err := questionnaire.New(in)
	if err != nil {
		abortQuestionnaireError(c, err)
		return
	}
	c.JSON(http.StatusOK, questionnaireResponse{
		Questionnaire: rec,
		Tips:          questionnaire.BasicTips(rec, 0, 0),
	})
}

type classifyRequest struct {
	Systolic  *int `json:"systolic" binding:"required"`
	Diastolic *int `json:"diastolic" binding:"required"`
}

func (s *Server) classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}
	class := bp.Classify(*req.Systolic, *req.Diastolic)
	s.Metrics.ObserveClassification(class.Category)
	c.JSON(http.StatusOK, class)
}

type estimateResponse struct {
	Reading        bp.Reading        `json:"reading"`
	Classification bp.Classification `json:"classification"`
	Capture        bp.CaptureReport  `json:"capture"`
}

func (s *Server) estimate(c *gin.Context) {
	reading, report, ok := s.readCapture(c)
	if !ok {
		return
	}
	class := bp.ClassifyReading(reading)
	s.Metrics.ObserveClassification(class.Category)
	c.JSON(http.StatusOK, estimateResponse{Reading: reading, Classification: class, Capture: report})
}

// readCapture runs the estimator over an optional uploaded frame. It writes
// the error response itself and reports ok=false for client errors.
func (s *Server) readCapture(c *gin.Context) (bp.Reading, bp.CaptureReport, bool) {
	log := loggerFrom(c, s.Log)

	settings := bp.DefaultCaptureSettings()
	if err := c.ShouldBindWith(&settings, binding.Form); err != nil {
		abortBindError(c, err)
		return bp.Reading{}, bp.CaptureReport{}, false
	}
	requireImage, _ := strconv.ParseBool(c.PostForm("require_image"))

	frame, provided, err := readFrame(c)
	if err != nil && !provided {
		abortBindError(c, err)
		return bp.Reading{}, bp.CaptureReport{}, false
	}

	var reading bp.Reading
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("uploaded image unusable, using simulated reading")
		reading = bp.FallbackReading(s.Rand)
		s.Metrics.ObserveEstimate("decode_error")
	case requireImage:
		reading, err = bp.RequireFrame(s.Estimator, frame)
		if errors.Is(err, bp.ErrNilFrame) {
			abortError(c, http.StatusBadRequest, "image_required", "an image is required for this estimate")
			return bp.Reading{}, bp.CaptureReport{}, false
		}
		s.Metrics.ObserveEstimate("image")
	case frame != nil:
		reading = s.Estimator.Estimate(frame)
		s.Metrics.ObserveEstimate("image")
	default:
		reading = s.Estimator.Estimate(nil)
		s.Metrics.ObserveEstimate("none")
	}

	report := bp.InspectCapture(s.Detector, frame, settings)
	if provided && frame == nil {
		report.ImageProvided = true
		report.Issues = append(report.Issues, "image could not be read")
	}
	return reading, report, true
}

type recommendationRequest struct {
	Reading       *bp.Reading           `json:"reading"`
	Category      string                `json:"category"`
	Questionnaire *questionnaire.Record `json:"questionnaire"`
}

func (s *Server) recommendations(c *gin.Context) {
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	var class bp.Classification
	switch {
	case req.Category != "":
		var ok bool
		if class, ok = bp.Lookup(req.Category); !ok {
			abortError(c, http.StatusBadRequest, "unknown_category", fmt.Sprintf("unknown category %q", req.Category))
			return
		}
	case req.Reading != nil:
		class = bp.ClassifyReading(*req.Reading)
		s.Metrics.ObserveClassification(class.Category)
	default:
		abortError(c, http.StatusBadRequest, "invalid_payload", "either reading or category is required")
		return
	}

	var prof recommend.Profile
	if req.Questionnaire != nil {
		rec, err := questionnaire.New(*req.Questionnaire)
		if err != nil {
			abortQuestionnaireError(c, err)
			return
		}
		prof = recommend.ProfileFromRecord(rec)
	}

	c.JSON(http.StatusOK, s.Provider.Recommend(c.Request.Context(), class, prof))
}

type assessmentResponse struct {
	store.Assessment
	Stored bool `json:"stored"`
}

const questionnaireField = "questionnaire"

func (s *Server) createAssessment(c *gin.Context) {
	log := loggerFrom(c, s.Log)

	reading, report, ok := s.readCapture(c)
	if !ok {
		return
	}

	raw := c.PostForm(questionnaireField)
	if raw == "" {
		abortError(c, http.StatusBadRequest, "invalid_payload", "questionnaire form field is required")
		return
	}
	var in questionnaire.Record
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		abortError(c, http.StatusBadRequest, "invalid_payload", fmt.Sprintf("questionnaire is not valid JSON: %v", err))
		return
	}
	rec, err := questionnaire.New(in)
	if err != nil {
		abortQuestionnaireError(c, err)
		return
	}

	class := bp.ClassifyReading(reading)
	s.Metrics.ObserveClassification(class.Category)

	a := store.Assessment{
		ID:              uuid.New(),
		CreatedAt:       time.Now().UTC(),
		Questionnaire:   rec,
		Reading:         reading,
		Classification:  class,
		Recommendations: s.Provider.Recommend(c.Request.Context(), class, recommend.ProfileFromRecord(rec)),
		Capture:         report,
		Tips:            questionnaire.BasicTips(rec, reading.Systolic, reading.Diastolic),
	}

	resp := assessmentResponse{Assessment: a}
	if s.Store != nil {
		if err := s.Store.Save(c.Request.Context(), &resp.Assessment); err != nil {
			log.Error().Err(err).Str("assessment_id", a.ID.String()).Msg("failed to store assessment")
		} else {
			resp.Stored = true
		}
	}

	logAssessment(log, resp)
	c.JSON(http.StatusCreated, resp)
}

func logAssessment(log zerolog.Logger, resp assessmentResponse) {
	log.Info().
		Str("assessment_id", resp.ID.String()).
		Str("category", resp.Classification.Category).
		Str("recommendation_source", resp.Recommendations.Source).
		Bool("stored", resp.Stored).
		Msg("assessment completed")
}

func (s *Server) getAssessment(c *gin.Context) {
	if s.Store == nil {
		abortError(c, http.StatusServiceUnavailable, "storage_disabled", "assessment storage is not enabled")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortError(c, http.StatusBadRequest, "invalid_id", "assessment id must be a UUID")
		return
	}

	a, err := s.Store.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		abortError(c, http.StatusNotFound, "not_found", "assessment not found")
		return
	}
	if err != nil {
		_ = c.Error(err)
		abortError(c, http.StatusInternalServerError, "storage_error", "could not load assessment")
		return
	}
	c.JSON(http.StatusOK, a)
}

package handler

import (
	"net/http"

	httpPlatform "github.com/andreypavlenko/postingguard/internal/platform/http"
	"github.com/andreypavlenko/postingguard/modules/scoring/model"
	"github.com/andreypavlenko/postingguard/modules/scoring/service"
	"github.com/gin-gonic/gin"
)

// ScoringHandler exposes the score_job operation over HTTP.
type ScoringHandler struct {
	scoringSvc *service.JobScoringService
}

// NewScoringHandler creates a new scoring handler.
func NewScoringHandler(scoringSvc *service.JobScoringService) *ScoringHandler {
	return &ScoringHandler{scoringSvc: scoringSvc}
}

// ScoreJob godoc
// @Summary Score a job posting
// @Description Enrich and score a JobRecord, returning its authenticity score, level, confidence, red flags, and positive signals. A record with missing jd_text degrades to a documented fallback result; a body that is not valid JSON is rejected with 400, and a persistence failure returns 500.
// @Tags scoring
// @Accept json
// @Produce json
// @Param request body model.JobRecord true "Raw job record"
// @Success 200 {object} model.ScoredJob
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 500 {object} httpPlatform.ErrorResponse
// @Router /jobs/score [post]
func (h *ScoringHandler) ScoreJob(c *gin.Context) {
	var record model.JobRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, string(model.CodeValidationErr), "Invalid job record payload")
		return
	}

	scored, err := h.scoringSvc.ScoreAndPersist(c.Request.Context(), &record)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, string(model.CodeInternalError), "Failed to score job")
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, scored)
}

// GetScoredJob godoc
// @Summary Get a previously scored job
// @Tags scoring
// @Produce json
// @Param job_id path string true "Job ID"
// @Success 200 {object} model.ScoredJob
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /jobs/{job_id}/score [get]
func (h *ScoringHandler) GetScoredJob(c *gin.Context) {
	jobID := c.Param("job_id")

	scored, err := h.scoringSvc.GetScoredJob(c.Request.Context(), jobID)
	if err != nil {
		errorCode := model.GetErrorCode(err)
		statusCode := http.StatusInternalServerError
		if errorCode == model.CodeJobNotFound {
			statusCode = http.StatusNotFound
		}
		httpPlatform.RespondWithError(c, statusCode, string(errorCode), model.GetErrorMessage(err))
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, scored)
}

// RegisterRoutes registers scoring routes.
func (h *ScoringHandler) RegisterRoutes(router *gin.RouterGroup, mw ...gin.HandlerFunc) {
	jobs := router.Group("/jobs")
	jobs.Use(mw...)
	{
		jobs.POST("/score", h.ScoreJob)
		jobs.GET("/:job_id/score", h.GetScoredJob)
	}
}

package handler

import (
	"net/http"

	httpPlatform "github.com/andreypavlenko/postingguard/internal/platform/http"
	decisionService "github.com/andreypavlenko/postingguard/modules/decision/service"
	scoringModel "github.com/andreypavlenko/postingguard/modules/scoring/model"
	scoringPorts "github.com/andreypavlenko/postingguard/modules/scoring/ports"
	"github.com/gin-gonic/gin"
)

// DecisionHandler exposes the explain_decision operation over HTTP.
type DecisionHandler struct {
	jobs scoringPorts.JobRepository
}

// NewDecisionHandler creates a new decision handler.
func NewDecisionHandler(jobs scoringPorts.JobRepository) *DecisionHandler {
	return &DecisionHandler{jobs: jobs}
}

// Explain godoc
// @Summary Explain a job's apply decision
// @Description Maps a previously scored job to {decision, reasons, risks, signals_used, confidence_level}.
// @Tags decision
// @Produce json
// @Param job_id path string true "Job ID"
// @Success 200 {object} model.Explanation
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /jobs/{job_id}/decision [get]
func (h *DecisionHandler) Explain(c *gin.Context) {
	jobID := c.Param("job_id")

	scored, err := h.jobs.GetScoredJob(c.Request.Context(), jobID)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusNotFound, string(scoringModel.CodeJobNotFound), "Scored job not found")
		return
	}

	record, err := h.jobs.GetRecord(c.Request.Context(), jobID)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusNotFound, string(scoringModel.CodeJobNotFound), "Job record not found")
		return
	}

	explanation := decisionService.Explain(scored, record.DerivedSignals)
	httpPlatform.RespondWithData(c, http.StatusOK, explanation)
}

// RegisterRoutes registers decision routes.
func (h *DecisionHandler) RegisterRoutes(router *gin.RouterGroup, mw ...gin.HandlerFunc) {
	jobs := router.Group("/jobs")
	jobs.Use(mw...)
	{
		jobs.GET("/:job_id/decision", h.Explain)
	}
}

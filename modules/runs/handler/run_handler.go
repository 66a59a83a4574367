// Package handler exposes the Run & Session Store's operations
// over HTTP: start_run, update_run, append_event, list_events, and the
// active-session pointer.
package handler

import (
	"errors"
	"net/http"

	"github.com/andreypavlenko/postingguard/internal/platform/auth"
	httpPlatform "github.com/andreypavlenko/postingguard/internal/platform/http"
	"github.com/andreypavlenko/postingguard/modules/runs/model"
	"github.com/andreypavlenko/postingguard/modules/runs/service"
	"github.com/gin-gonic/gin"
)

// RunHandler implements the HTTP surface for runs.
type RunHandler struct {
	runs *service.RunService
}

// NewRunHandler creates a new run handler.
func NewRunHandler(runs *service.RunService) *RunHandler {
	return &RunHandler{runs: runs}
}

type startRunBody struct {
	TaskID     *string `json:"task_id,omitempty"`
	JobID      *string `json:"job_id,omitempty"`
	InitialURL string  `json:"initial_url" binding:"required"`
	ATSType    *string `json:"ats_type,omitempty"`
}

// StartRun godoc
// @Summary Start an apply run
// @Tags runs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body startRunBody true "Start run request"
// @Success 201 {object} model.RunDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Router /runs [post]
func (h *RunHandler) StartRun(c *gin.Context) {
	userID, ok := auth.MustGetUserID(c)
	if !ok {
		return
	}

	var body startRunBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	run, err := h.runs.StartRun(c.Request.Context(), userID, body.TaskID, body.JobID, body.InitialURL, body.ATSType)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start run")
		return
	}

	httpPlatform.RespondWithData(c, http.StatusCreated, run.ToDTO())
}

// GetRun godoc
// @Summary Get an apply run
// @Tags runs
// @Security BearerAuth
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} model.RunDTO
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /runs/{run_id} [get]
func (h *RunHandler) GetRun(c *gin.Context) {
	runID := c.Param("run_id")

	run, err := h.runs.GetRun(c.Request.Context(), runID)
	if err != nil {
		respondRunError(c, err)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, run.ToDTO())
}

type updateRunBody struct {
	CurrentURL      *string          `json:"current_url,omitempty"`
	ATSKind         *string          `json:"ats_kind,omitempty"`
	Intent          *string          `json:"intent,omitempty"`
	Stage           *string          `json:"stage,omitempty"`
	Status          *model.RunStatus `json:"status,omitempty"`
	FillRate        *float64         `json:"fill_rate,omitempty"`
	FieldsAttempted *int             `json:"fields_attempted,omitempty"`
	FieldsFilled    *int             `json:"fields_filled,omitempty"`
	FieldsSkipped   *int             `json:"fields_skipped,omitempty"`
	FailureReason   *string          `json:"failure_reason,omitempty"`
}

// UpdateRun godoc
// @Summary Update an apply run's mutable fields
// @Tags runs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param run_id path string true "Run ID"
// @Param request body updateRunBody true "Update run request"
// @Success 200 {object} model.RunDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /runs/{run_id} [patch]
func (h *RunHandler) UpdateRun(c *gin.Context) {
	runID := c.Param("run_id")

	var body updateRunBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	patch := model.RunPatch{
		CurrentURL:      body.CurrentURL,
		ATSKind:         body.ATSKind,
		Intent:          body.Intent,
		Stage:           body.Stage,
		Status:          body.Status,
		FillRate:        body.FillRate,
		FieldsAttempted: body.FieldsAttempted,
		FieldsFilled:    body.FieldsFilled,
		FieldsSkipped:   body.FieldsSkipped,
		FailureReason:   body.FailureReason,
	}

	run, err := h.runs.UpdateRun(c.Request.Context(), runID, patch)
	if err != nil {
		respondRunError(c, err)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, run.ToDTO())
}

type appendEventBody struct {
	Source       model.Source           `json:"source" binding:"required"`
	Severity     model.Severity         `json:"severity" binding:"required"`
	EventName    string                 `json:"event_name" binding:"required"`
	EventVersion string                 `json:"event_version"`
	URL          *string                `json:"url,omitempty"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
	DedupKey     *string                `json:"dedup_key,omitempty"`
	RequestID    *string                `json:"request_id,omitempty"`
	DetectionID  *string                `json:"detection_id,omitempty"`
	PageID       *string                `json:"page_id,omitempty"`
}

// AppendEvent godoc
// @Summary Append an observability event to a run
// @Tags runs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param run_id path string true "Run ID"
// @Param request body appendEventBody true "Append event request"
// @Success 201 {object} model.ObservabilityEventDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Router /runs/{run_id}/events [post]
func (h *RunHandler) AppendEvent(c *gin.Context) {
	runID := c.Param("run_id")
	userID, ok := auth.MustGetUserID(c)
	if !ok {
		return
	}

	var body appendEventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	event, err := h.runs.AppendEvent(c.Request.Context(), runID, userID, body.Source, body.Severity, body.EventName, body.EventVersion, body.URL, body.Payload, body.DedupKey, body.RequestID, body.DetectionID, body.PageID)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to append event")
		return
	}

	httpPlatform.RespondWithData(c, http.StatusCreated, event.ToDTO())
}

// ListEvents godoc
// @Summary List a run's event trail
// @Tags runs
// @Security BearerAuth
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {array} model.ObservabilityEventDTO
// @Router /runs/{run_id}/events [get]
func (h *RunHandler) ListEvents(c *gin.Context) {
	runID := c.Param("run_id")

	events, err := h.runs.ListEvents(c.Request.Context(), runID)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list events")
		return
	}

	dtos := make([]*model.ObservabilityEventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, e.ToDTO())
	}
	httpPlatform.RespondWithData(c, http.StatusOK, dtos)
}

type setActiveSessionBody struct {
	TaskID  string  `json:"task_id" binding:"required"`
	RunID   string  `json:"run_id" binding:"required"`
	JobURL  string  `json:"job_url" binding:"required"`
	ATSType *string `json:"ats_type,omitempty"`
}

// SetActiveSession godoc
// @Summary Set the caller's active apply session
// @Description Points the caller's active session at a run, replacing any prior session and restarting its TTL.
// @Tags runs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body setActiveSessionBody true "Set active session request"
// @Success 200 {object} model.ActiveApplySessionDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Router /runs/active-session [put]
func (h *RunHandler) SetActiveSession(c *gin.Context) {
	userID, ok := auth.MustGetUserID(c)
	if !ok {
		return
	}

	var body setActiveSessionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	session, err := h.runs.SetActiveSession(c.Request.Context(), userID, body.TaskID, body.RunID, body.JobURL, body.ATSType)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to set active session")
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, session.ToDTO())
}

// GetActiveSession godoc
// @Summary Get the caller's active apply session
// @Tags runs
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.ActiveApplySessionDTO
// @Success 204 "no active session"
// @Router /runs/active-session [get]
func (h *RunHandler) GetActiveSession(c *gin.Context) {
	userID, ok := auth.MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.runs.GetActiveSession(c.Request.Context(), userID)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load active session")
		return
	}
	if session == nil {
		c.Status(http.StatusNoContent)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, session.ToDTO())
}

// ClearActiveSession godoc
// @Summary Clear the caller's active apply session
// @Tags runs
// @Security BearerAuth
// @Success 204
// @Router /runs/active-session [delete]
func (h *RunHandler) ClearActiveSession(c *gin.Context) {
	userID, ok := auth.MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.runs.ClearActiveSession(c.Request.Context(), userID); err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to clear active session")
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers run routes.
func (h *RunHandler) RegisterRoutes(router *gin.RouterGroup, mw ...gin.HandlerFunc) {
	runs := router.Group("/runs")
	runs.Use(mw...)
	{
		runs.POST("", h.StartRun)
		runs.PUT("/active-session", h.SetActiveSession)
		runs.GET("/active-session", h.GetActiveSession)
		runs.DELETE("/active-session", h.ClearActiveSession)
		runs.GET("/:run_id", h.GetRun)
		runs.PATCH("/:run_id", h.UpdateRun)
		runs.POST("/:run_id/events", h.AppendEvent)
		runs.GET("/:run_id/events", h.ListEvents)
	}
}

func respondRunError(c *gin.Context, err error) {
	code := model.GetErrorCode(err)
	message := model.GetErrorMessage(err)

	status := http.StatusInternalServerError
	if errors.Is(err, model.ErrRunNotFound) {
		status = http.StatusNotFound
	}

	httpPlatform.RespondWithError(c, status, string(code), message)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/andreypavlenko/postingguard/internal/platform/auth"
	httpPlatform "github.com/andreypavlenko/postingguard/internal/platform/http"
	"github.com/andreypavlenko/postingguard/modules/apply/model"
	"github.com/andreypavlenko/postingguard/modules/apply/priority"
	"github.com/andreypavlenko/postingguard/modules/apply/service"
	"github.com/gin-gonic/gin"
)

// ApplyHandler exposes the Task Store + FSM's operations over
// HTTP: enqueue_tasks, list_tasks, get_task, transition_task.
type ApplyHandler struct {
	tasks *service.TaskService
}

// NewApplyHandler creates a new apply handler.
func NewApplyHandler(tasks *service.TaskService) *ApplyHandler {
	return &ApplyHandler{tasks: tasks}
}

type enqueueBody struct {
	JobIDs          []string               `json:"job_ids" binding:"required"`
	Strategy        priority.Strategy      `json:"strategy"`
	AllowDuplicates bool                   `json:"allow_duplicates"`
	TaskMetadata    map[string]interface{} `json:"task_metadata,omitempty"`
}

// Enqueue godoc
// @Summary Enqueue apply tasks
// @Description Verifies the user and jobs exist, filters out duplicates unless allowed, computes priority, and inserts one queued task per job.
// @Tags apply
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body enqueueBody true "Enqueue request"
// @Success 201 {array} model.TaskDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 401 {object} httpPlatform.ErrorResponse
// @Router /apply/tasks [post]
func (h *ApplyHandler) Enqueue(c *gin.Context) {
	userID, ok := auth.MustGetUserID(c)
	if !ok {
		return
	}

	var body enqueueBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}
	strategy := body.Strategy
	if strategy == "" {
		strategy = priority.StrategyDecisionThenNewest
	}

	tasks, err := h.tasks.Enqueue(c.Request.Context(), userID, body.JobIDs, strategy, body.AllowDuplicates, body.TaskMetadata)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	dtos := make([]*model.TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, t.ToDTO())
	}
	httpPlatform.RespondWithData(c, http.StatusCreated, dtos)
}

// List godoc
// @Summary List a user's apply tasks
// @Tags apply
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} httpPlatform.PaginatedResponse
// @Router /apply/tasks [get]
func (h *ApplyHandler) List(c *gin.Context) {
	userID, ok := auth.MustGetUserID(c)
	if !ok {
		return
	}

	pagination, err := httpPlatform.ParsePaginationParams(c)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid pagination parameters")
		return
	}

	query := model.ListQuery{Limit: pagination.Limit, Offset: pagination.Offset}
	if statusStr := c.Query("status"); statusStr != "" {
		status := model.Status(statusStr)
		query.Status = &status
	}

	tasks, total, err := h.tasks.List(c.Request.Context(), userID, query)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tasks")
		return
	}

	dtos := make([]*model.TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, t.ToDTO())
	}
	httpPlatform.RespondWithPagination(c, http.StatusOK, dtos, pagination.Limit, pagination.Offset, total)
}

// Get godoc
// @Summary Get an apply task
// @Tags apply
// @Security BearerAuth
// @Produce json
// @Param task_id path string true "Task ID"
// @Success 200 {object} model.TaskDTO
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /apply/tasks/{task_id} [get]
func (h *ApplyHandler) Get(c *gin.Context) {
	taskID := c.Param("task_id")

	task, err := h.tasks.Get(c.Request.Context(), taskID)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load task")
		return
	}
	if task == nil {
		httpPlatform.RespondWithError(c, http.StatusNotFound, string(model.CodeTaskNotFound), model.GetErrorMessage(model.ErrTaskNotFound))
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, task.ToDTO())
}

// Transition godoc
// @Summary Transition an apply task's status
// @Tags apply
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param task_id path string true "Task ID"
// @Param request body model.TransitionRequest true "Transition request"
// @Success 200 {object} model.TaskDTO
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Failure 409 {object} httpPlatform.ErrorResponse
// @Router /apply/tasks/{task_id}/transition [post]
func (h *ApplyHandler) Transition(c *gin.Context) {
	taskID := c.Param("task_id")

	var req model.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload")
		return
	}

	task, event, err := h.tasks.Transition(c.Request.Context(), taskID, req.ToStatus, req.Reason, req.Details)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, gin.H{
		"task":  task.ToDTO(),
		"event": event.ToDTO(),
	})
}

// ListEvents godoc
// @Summary List a task's event trail
// @Tags apply
// @Security BearerAuth
// @Produce json
// @Param task_id path string true "Task ID"
// @Success 200 {array} model.TaskEventDTO
// @Router /apply/tasks/{task_id}/events [get]
func (h *ApplyHandler) ListEvents(c *gin.Context) {
	taskID := c.Param("task_id")

	events, err := h.tasks.ListEvents(c.Request.Context(), taskID)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list events")
		return
	}

	dtos := make([]*model.TaskEventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, e.ToDTO())
	}
	httpPlatform.RespondWithData(c, http.StatusOK, dtos)
}

// RegisterRoutes registers apply routes.
func (h *ApplyHandler) RegisterRoutes(router *gin.RouterGroup, mw ...gin.HandlerFunc) {
	tasks := router.Group("/apply/tasks")
	tasks.Use(mw...)
	{
		tasks.POST("", h.Enqueue)
		tasks.GET("", h.List)
		tasks.GET("/:task_id", h.Get)
		tasks.POST("/:task_id/transition", h.Transition)
		tasks.GET("/:task_id/events", h.ListEvents)
	}
}

func respondTaskError(c *gin.Context, err error) {
	code := model.GetErrorCode(err)
	message := model.GetErrorMessage(err)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrUnknownUser), errors.Is(err, model.ErrUnknownJob), errors.Is(err, model.ErrReasonRequired):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrInvalidTransition), errors.Is(err, model.ErrDuplicateActiveTask):
		status = http.StatusConflict
	}

	httpPlatform.RespondWithError(c, status, string(code), message)
}

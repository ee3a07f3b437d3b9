package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/internal/service"
)

// TaskHandler handles the board endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// idRequest is the body of collection-level PUT/DELETE calls, which carry
// the target id in JSON rather than in the path.
type idRequest struct {
	ID uint `json:"id"`
}

// List godoc
// @Summary List all tasks in display view
// @Tags tasks
// @Produce json
// @Security TokenAuth
// @Success 200 {array} service.TaskView
// @Failure 401 {object} errors.ErrorResponse
// @Router /task/ [get]
func (h *TaskHandler) List(c echo.Context) error {
	views, err := h.taskService.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// Create godoc
// @Summary Create a task with categories, assignees and subtasks
// @Tags tasks
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body service.TaskInput true "Task payload"
// @Success 201 {array} service.TaskView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /task/ [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var input service.TaskInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	views, err := h.taskService.Create(c.Request().Context(), input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, views)
}

// Update godoc
// @Summary Replace a task's fields and associations
// @Tags tasks
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body service.TaskInput true "Task payload with id"
// @Success 200 {array} service.TaskView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /task/ [put]
func (h *TaskHandler) Update(c echo.Context) error {
	var input service.TaskInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	views, err := h.taskService.Update(c.Request().Context(), input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// Delete godoc
// @Summary Delete a task and its subtasks
// @Tags tasks
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body idRequest true "Task id"
// @Success 200 {array} service.TaskView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /task/ [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	var req idRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	views, err := h.taskService.Delete(c.Request().Context(), req.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// Summary godoc
// @Summary Aggregate counts and earliest due date
// @Tags tasks
// @Produce json
// @Success 200 {object} service.TaskSummary
// @Router /task/summary/ [get]
func (h *TaskHandler) Summary(c echo.Context) error {
	summary, err := h.taskService.Summary(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

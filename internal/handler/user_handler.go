package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/service"
)

// UserHandler handles the user and contact-book endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// @Summary List all users as contacts
// @Tags users
// @Produce json
// @Security TokenAuth
// @Success 200 {array} service.Contact
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/ [get]
func (h *UserHandler) List(c echo.Context) error {
	contacts, err := h.userService.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, contacts)
}

// Create godoc
// @Summary Create a user directly from the given fields
// @Tags users
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body service.UserInput true "User payload"
// @Success 201 {array} service.Contact
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /user/ [post]
func (h *UserHandler) Create(c echo.Context) error {
	var input service.UserInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	contacts, err := h.userService.Create(c.Request().Context(), input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, contacts)
}

// Update godoc
// @Summary Replace a user's fields, preserving the stored password
// @Tags users
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body service.UserInput true "User payload with id"
// @Success 200 {array} service.Contact
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/ [put]
func (h *UserHandler) Update(c echo.Context) error {
	var input service.UserInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	contacts, err := h.userService.Update(c.Request().Context(), input)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, contacts)
}

// Delete godoc
// @Summary Delete a user by id carried in the body
// @Tags users
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body idRequest true "User id"
// @Success 200 {array} service.Contact
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/ [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	var req idRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	contacts, err := h.userService.Delete(c.Request().Context(), req.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, contacts)
}

// Get godoc
// @Summary Get a single user
// @Tags users
// @Produce json
// @Security TokenAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Patch godoc
// @Summary Partially update a user (owner or admin only)
// @Tags users
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path int true "User ID"
// @Param request body service.UserPatch true "Fields to change"
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id} [patch]
func (h *UserHandler) Patch(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	target, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if !auth.OwnerOrAdmin(c.Request().Method, auth.CurrentUser(c), target) {
		return httpError(apperrors.ErrForbidden)
	}

	var patch service.UserPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	user, err := h.userService.Patch(c.Request().Context(), id, patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteByID godoc
// @Summary Delete a user (owner or admin only)
// @Tags users
// @Security TokenAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id} [delete]
func (h *UserHandler) DeleteByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	target, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if !auth.OwnerOrAdmin(c.Request().Method, auth.CurrentUser(c), target) {
		return httpError(apperrors.ErrForbidden)
	}

	if _, err := h.userService.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

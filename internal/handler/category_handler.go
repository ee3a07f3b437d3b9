package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	categoryService service.CategoryService
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List godoc
// @Summary List all categories
// @Tags categories
// @Produce json
// @Security TokenAuth
// @Success 200 {array} model.Category
// @Failure 401 {object} errors.ErrorResponse
// @Router /category/ [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.categoryService.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// Create godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body model.Category true "Category payload"
// @Success 201 {object} model.Category
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /category/ [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var category model.Category
	if err := c.Bind(&category); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if category.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "category name is required")
	}

	created, err := h.categoryService.Create(c.Request().Context(), &category)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

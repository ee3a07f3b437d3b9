package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskboard/internal/auth"
	"taskboard/internal/config"
	"taskboard/internal/handler"
)

// Register wires routes and middleware. Paths, including the trailing
// slashes and the /contact/ aliases, are the contract the frontend was
// built against and must not be normalized.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokens auth.Store,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/user/register/", authHandler.Register)
	e.POST("/user/login/", authHandler.Login)
	e.POST("/contact/new/", authHandler.Register)
	// Summary is served unauthenticated: the dashboard widget requests it
	// before login, and the existing frontend depends on that.
	e.GET("/task/summary/", taskHandler.Summary)

	// Secured routes (require a valid opaque token)
	secured := e.Group("", auth.Middleware(tokens))

	secured.GET("/task/", taskHandler.List)
	secured.POST("/task/", taskHandler.Create)
	secured.PUT("/task/", taskHandler.Update)
	secured.DELETE("/task/", taskHandler.Delete)

	secured.GET("/user/", userHandler.List)
	secured.POST("/user/", userHandler.Create)
	secured.PUT("/user/", userHandler.Update)
	secured.DELETE("/user/", userHandler.Delete)
	secured.GET("/user/active/", authHandler.Active)
	secured.GET("/user/:id", userHandler.Get)
	secured.PATCH("/user/:id", userHandler.Patch)
	secured.DELETE("/user/:id", userHandler.DeleteByID)

	secured.GET("/contact/", userHandler.List)

	secured.GET("/category/", categoryHandler.List)
	secured.POST("/category/", categoryHandler.Create)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

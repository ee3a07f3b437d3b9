package main

import (
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"taskboard/docs"

	"taskboard/internal/auth"
	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/handler"
	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/router"
	"taskboard/internal/service"
)

// @title Task Board API
// @version 1.0
// @description Task-board backend with users, categories, tasks, subtasks and opaque-token authentication.
// @host localhost:8080
// @schemes http
// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description Type "Token" followed by a space and the key issued at login.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.AuthToken{},
			&model.SubTask{},
			&model.Task{},
			&model.Category{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Task{},
		&model.SubTask{},
		&model.AuthToken{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	tokenRepo := repository.NewTokenRepository(gormDB)

	// Initialize auth components
	tokenStore := auth.NewTokenStore(tokenRepo, cacheClient)

	// Initialize services
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	authService := service.NewAuthService(userRepo, tokenStore, rng)
	taskService := service.NewTaskService(taskRepo, cacheClient)
	userService := service.NewUserService(userRepo, tokenStore, cacheClient)
	categoryService := service.NewCategoryService(categoryRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	// Register routes
	router.Register(
		e,
		cfg,
		tokenStore,
		authHandler,
		taskHandler,
		userHandler,
		categoryHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

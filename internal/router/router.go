// Package router assembles the HTTP API on a gin engine.
package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Oniqq60/staff_control/internal/auth"
	"github.com/Oniqq60/staff_control/internal/cfg"
	"github.com/Oniqq60/staff_control/internal/database"
	"github.com/Oniqq60/staff_control/internal/dto"
	"github.com/Oniqq60/staff_control/internal/employee"
	"github.com/Oniqq60/staff_control/internal/policy"
	"github.com/Oniqq60/staff_control/internal/respond"
	"github.com/Oniqq60/staff_control/internal/task"
	"github.com/Oniqq60/staff_control/internal/validation"
)

const (
	apiName    = "Employee & Task Management API"
	apiVersion = "2.0.0"
)

type Dependencies struct {
	Config cfg.Config
	DB     *gorm.DB
	Log    *zap.Logger
	// Throttle defaults to auth.NopThrottle.
	Throttle auth.LoginThrottle
	// Events defaults to task.NopPublisher.
	Events task.Publisher
}

func New(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, errors.New("database is required")
	}
	if deps.Log == nil {
		return nil, errors.New("logger is required")
	}
	if deps.Config.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}

	conf := deps.Config
	log := deps.Log

	tokens := auth.NewTokenIssuer(conf.JWTSecret, conf.JWTTTL)
	users := auth.NewRepository(deps.DB)
	gate := policy.NewGate(policy.DefaultRules())
	v := validation.New(log.Named("validation"))

	authH := auth.NewHandler(
		auth.NewService(users, tokens, conf.BcryptCost, log.Named("auth")),
		deps.Throttle,
		log.Named("auth"),
	)
	employeeH := employee.NewHandler(
		employee.NewService(employee.NewRepository(deps.DB), users, log.Named("employee")),
		gate,
		log.Named("employee"),
	)
	taskH := task.NewHandler(
		task.NewService(task.NewRepository(deps.DB), users, deps.Events, log.Named("task")),
		gate,
		log.Named("task"),
	)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		RequestID(),
		RequestLogger(log.Named("http")),
		Recovery(log.Named("http"), !conf.IsProduction()),
		SecurityHeaders(),
		CORS(conf.AllowedCORSOrigins),
		NewRateLimiter(conf.RateLimitRequests, conf.RateLimitWindow).Middleware(),
		BodyLimit(conf.MaxBodyBytes),
	)
	if !conf.IsProduction() {
		r.Use(respond.ExposeErrors())
	}

	r.GET("/", info)
	r.GET("/health", health(deps.DB))

	requireAuth := auth.RequireAuth(tokens, log.Named("auth"))

	authGroup := r.Group("/auth")
	authGroup.POST("/register", validation.Body[dto.RegisterRequest](v, false), authH.Register)
	authGroup.POST("/login", validation.Body[dto.LoginRequest](v, false), authH.Login)

	employeeID := validation.PathID(v, "id", "Employee")
	employees := r.Group("/employees")
	employees.POST("", validation.Body[dto.CreateEmployeeRequest](v, false), requireAuth, employeeH.Create)
	employees.GET("", validation.Query[dto.PageQuery](v), requireAuth, employeeH.List)
	employees.GET("/:id", employeeID, requireAuth, employeeH.Get)
	employees.PUT("/:id", employeeID, validation.Body[dto.UpdateEmployeeRequest](v, true), requireAuth, employeeH.Update)
	employees.DELETE("/:id", employeeID, requireAuth, employeeH.Delete)

	taskID := validation.PathID(v, "id", "Task")
	tasks := r.Group("/tasks")
	tasks.POST("", validation.Body[dto.CreateTaskRequest](v, false), requireAuth, taskH.Create)
	tasks.GET("", validation.Query[dto.TaskQuery](v), requireAuth, taskH.List)
	tasks.GET("/:id", taskID, requireAuth, taskH.Get)
	tasks.PUT("/:id", taskID, validation.Body[dto.UpdateTaskRequest](v, true), requireAuth, taskH.Update)
	tasks.DELETE("/:id", taskID, requireAuth, taskH.Delete)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Response{
			Success: false,
			Message: "Route not found",
			Path:    c.Request.URL.Path,
		})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.Response{
			Success: false,
			Message: "Method not allowed",
			Path:    c.Request.URL.Path,
		})
	})

	return r, nil
}

func info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        apiName,
		"version":     apiVersion,
		"description": "Employee and task management REST API",
		"endpoints": gin.H{
			"auth":      "/auth",
			"employees": "/employees",
			"tasks":     "/tasks",
			"health":    "/health",
		},
		"status": "running",
	})
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, dbState, code := "ok", "up", http.StatusOK
		if err := database.Ping(ctx, db); err != nil {
			_ = c.Error(err)
			status, dbState, code = "degraded", "down", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"database":  dbState,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

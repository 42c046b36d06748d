package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/personal-blog-api/internal/config"
	"github.com/personal-blog-api/internal/service"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router. db may be nil, in which
// case the health check only reports that the process is up.
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger, db HealthChecker) *gin.Engine {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Error().Err(err).Msg("Invalid trusted proxies, forwarding headers are ignored")
		_ = router.SetTrustedProxies(nil)
	}

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	blogHandler := NewBlogHandler(services, cfg, log)
	authHandler := NewAuthHandler(services, cfg, log)
	postHandler := NewAdminPostHandler(services, cfg, log)
	commentHandler := NewAdminCommentHandler(services, cfg, log)

	router.GET("/health-check", healthCheck(db, log))

	// Public site
	router.GET("/", blogHandler.Index)
	blog := router.Group("/blog")
	{
		blog.GET("/:post", blogHandler.Show)
		blog.POST("/:post/comments", blogHandler.StoreComment)
	}

	// Session
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	// Admin panel
	admin := router.Group("/admin", authMiddleware(services.Auth, cfg.Auth, log))
	{
		admin.GET("/dashboard", dashboardHandler(services, log))

		posts := admin.Group("/blog-posts")
		{
			posts.GET("", postHandler.Index)
			posts.GET("/create", postHandler.Create)
			posts.POST("", postHandler.Store)
			posts.GET("/:id", postHandler.Show)
			posts.GET("/:id/edit", postHandler.Edit)
			posts.PUT("/:id", postHandler.Update)
			posts.DELETE("/:id", postHandler.Destroy)
		}

		comments := admin.Group("/comments")
		{
			comments.GET("", commentHandler.Index)
			comments.GET("/:id", commentHandler.Show)
			comments.PATCH("/:id", commentHandler.Update)
			comments.DELETE("/:id", commentHandler.Destroy)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(db HealthChecker, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.HealthCheck(ctx); err != nil {
				log.Error().Err(err).Msg("Database health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "unavailable",
					"timestamp": time.Now().Format(time.RFC3339),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// dashboardHandler returns post and comment counts per status
func dashboardHandler(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := services.Dashboard.Stats(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// requestIDMiddleware tags every request with an id, reusing the caller's when present
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString("request_id")).
					Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

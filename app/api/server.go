package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kolkata-chronicle/newsdesk/app/cfg"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Middleware
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	r.Use(gin.Recovery())

	// CORS middleware; the reader-facing pages are served from a
	// different origin during development
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-API-Key, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

// setupRoutes configures all the application routes
func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	// Read endpoints (open)
	r.GET("/articles", handler.ListArticles)
	r.GET("/articles/:id", handler.GetArticle)
	r.GET("/users", handler.ListUsers)
	r.GET("/users/lookup", handler.GetUserByEmail)
	r.GET("/users/:id", handler.GetUser)
	r.GET("/stats", handler.GetStats)
	r.GET("/stats/authors/:id", handler.GetAuthorStats)

	// Health and status endpoints
	r.GET("/health", handler.HealthCheck)

	// Mutating and bulk endpoints (conditionally enabled with authentication)
	if apiAccessKey != "" {
		api := r.Group("/api")
		api.Use(authMiddleware(apiAccessKey))
		{
			api.POST("/articles", handler.CreateArticle)
			api.PATCH("/articles/:id", handler.UpdateArticle)
			api.PATCH("/articles/:id/status", handler.UpdateArticleStatus)
			api.DELETE("/articles/:id", handler.DeleteArticle)
			api.GET("/export", handler.ExportData)
			api.POST("/import", handler.ImportData)
			api.POST("/reset", handler.ResetData)
		}
		slog.Info("Editorial endpoints enabled with authentication")
	} else {
		slog.Info("Editorial endpoints disabled (API_ACCESS_KEY not set)")
	}

	// Root endpoint with basic information
	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"articles":     "/articles?status=<status>&author=<id>",
			"article":      "/articles/<id>",
			"users":        "/users",
			"user_lookup":  "/users/lookup?email=<email>",
			"stats":        "/stats",
			"author_stats": "/stats/authors/<id>",
			"health":       "/health",
		}

		if apiAccessKey != "" {
			endpoints["create"] = "/api/articles (POST, requires X-API-Key header)"
			endpoints["update"] = "/api/articles/<id> (PATCH, requires X-API-Key header)"
			endpoints["status"] = "/api/articles/<id>/status (PATCH, requires X-API-Key header)"
			endpoints["delete"] = "/api/articles/<id> (DELETE, requires X-API-Key header)"
			endpoints["export"] = "/api/export (requires X-API-Key header)"
			endpoints["import"] = "/api/import (POST, requires X-API-Key header)"
			endpoints["reset"] = "/api/reset (POST, requires X-API-Key header)"
		}

		c.JSON(200, gin.H{
			"service":     "Kolkata Chronicle Newsdesk",
			"version":     cfg.GetVersion(),
			"description": "Newsroom record store with article and user collections",
			"endpoints":   endpoints,
			"api_status": map[string]interface{}{
				"enabled":       apiAccessKey != "",
				"auth_required": apiAccessKey != "",
				"header":        "X-API-Key",
			},
		})
	})

	// Favicon handler (return 204 to avoid 404s)
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(204)
	})
}

// authMiddleware creates authentication middleware for editorial endpoints
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		// Also check Authorization header with Bearer prefix
		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			c.Abort()
			return
		}

		if providedKey != apiAccessKey {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/wpendl99/jwt-pizza-service/config"
	"github.com/wpendl99/jwt-pizza-service/database"
	"github.com/wpendl99/jwt-pizza-service/logger"
	"github.com/wpendl99/jwt-pizza-service/metrics"
	"github.com/wpendl99/jwt-pizza-service/routes"
)

func main() {
	cfg := config.Load()

	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database (schema migrate + seed)
	database.Init()

	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.Use(metrics.M.Middleware())
	r.Use(logger.HTTPLogger())

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "welcome to JWT Pizza",
			"version": cfg.Version,
		})
	})

	// Self-describing docs endpoint
	r.GET("/api/docs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":   cfg.Version,
			"endpoints": routes.Endpoints,
			"config": gin.H{
				"factory": cfg.Factory.URL,
				"db":      dbSummary(cfg),
			},
		})
	})

	routes.SetupRoutes(r)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown endpoint"})
	})

	// Background telemetry flush, never on the request path
	metrics.M.StartFlusher(context.Background(), cfg.Metrics, cfg.MetricsInterval)

	log.Printf("Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// dbSummary names the configured backend without leaking credentials.
func dbSummary(cfg *config.Config) string {
	if cfg.DatabaseURL != "" {
		return "postgres"
	}
	return cfg.SQLitePath
}

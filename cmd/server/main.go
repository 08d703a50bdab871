package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dpk1212/heartglow-go/internal/auth"
	"github.com/dpk1212/heartglow-go/internal/catalog"
	"github.com/dpk1212/heartglow-go/internal/config"
	"github.com/dpk1212/heartglow-go/internal/database"
	"github.com/dpk1212/heartglow-go/internal/engine"
	"github.com/dpk1212/heartglow-go/internal/handlers"
	"github.com/dpk1212/heartglow-go/internal/middleware"
)

var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.ApplySchema(ctx, pool); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	if err := catalog.Seed(ctx, pool); err != nil {
		log.Fatalf("Failed to seed challenge catalog: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)
	eng := engine.New(pool, nil)

	// Initialize Gin
	r := gin.Default()

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context(), pool); err != nil {
			c.JSON(503, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": Version,
		})
	})

	// Version endpoint
	r.GET("/api/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version": Version,
			"service": "heartglow-go",
		})
	})

	// Root endpoint
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "HeartGlow Progress API",
			"version": Version,
		})
	})

	r.POST("/api/auth/login", handlers.Login(pool, jwtService))

	api := r.Group("/api", middleware.RequireAuth(jwtService))
	{
		api.POST("/progress/events", handlers.PostProgressEvent(eng))
		api.GET("/users/:id/profile", handlers.GetUserProfile(eng))
		api.GET("/users/:id/history", handlers.GetUserHistory(eng))
		api.GET("/challenges", handlers.ListChallenges(pool))
		api.POST("/challenges/skip", handlers.SkipChallenge(eng))
		api.POST("/challenges/select", handlers.SelectChallenge(eng))
		api.GET("/leaderboard", handlers.GetWeeklyLeaderboard(pool))
		api.GET("/leaderboard/alltime", handlers.GetAllTimeLeaderboard(pool))
	}

	admin := api.Group("", middleware.RequireAdmin())
	{
		admin.POST("/admin/assignments/run", handlers.RunAssignments(eng))
		admin.POST("/admin/users", handlers.CreateUser(pool))
	}

	// Weekly challenge rotation; an external scheduler hitting the admin
	// endpoint can replace this.
	if cfg.SchedulerEnabled {
		go eng.RunWeeklyScheduler(ctx, cfg.SchedulerInterval)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Server shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited")
}

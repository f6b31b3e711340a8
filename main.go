// Wrenchmark catalog filter API
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	metadata_cache "github.com/AngelinaFiera614/wrenchmark-sub010/cache"
	"github.com/AngelinaFiera614/wrenchmark-sub010/config"
	"github.com/AngelinaFiera614/wrenchmark-sub010/controllers/ecommerce/filter_controller"
	"github.com/AngelinaFiera614/wrenchmark-sub010/routes/ecommerce_routes"
	"github.com/AngelinaFiera614/wrenchmark-sub010/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	_ = godotenv.Load()
}

func main() {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Connect to DB
	config.InitDB()
	defer config.CloseDB()
	// Redis connection
	config.ConnectRedis()
	defer config.CloseRedis()

	metadata := services.NewGormMetadataSource(config.CatalogGorm, metadata_cache.New(cfg.MetadataTTL))
	snapshots := services.NewRedisSnapshotStore(config.RedisClient, cfg.SnapshotTTL)
	sessions, err := services.NewFilterSessionService(metadata, snapshots, services.FilterSessionOptions{
		RefreshDelay: cfg.RefreshDelay,
		IdleTTL:      cfg.SessionIdleTTL,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize filter sessions: %v", err)
	}
	filter_controller.InitFilterControllers(metadata, sessions)
	log.Printf("✅ Filter sessions initialized (refresh delay %s)", cfg.RefreshDelay)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api/v1")
	ecommerce_routes.SetupStorefrontRoutes(api, config.RedisClient, cfg.RateLimit, cfg.RateWindow)

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := config.WithTimeout()
		defer cancel()
		if err := config.PingDB(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		if err := config.PingRedis(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("🚀 Server is running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("⏳ Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
	// Pending refreshes are cancelled before redis and the DB go away.
	sessions.Shutdown()
}

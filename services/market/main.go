package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"makerhub/pkg/cache"
	"makerhub/pkg/config"
	"makerhub/pkg/database"
	"makerhub/pkg/jwt"
	"makerhub/pkg/logger"
	"makerhub/pkg/middleware"
	"makerhub/pkg/models"
	"makerhub/pkg/storage"
	"makerhub/services/market/handlers"
	"makerhub/services/market/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "makerhub/docs" // Swagger docs
)

// @title           Market Service API
// @version         1.0
// @description     Project marketplace and file delivery for the Makerhub platform

// @host      localhost:8003
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		panic(err)
	}

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		log.Error("Failed to init storage backend %s: %v", cfg.StorageBackend, err)
		panic(err)
	}

	jwtService := jwt.NewService(cfg.JWTSecret)
	projectRepo := repository.NewProjectRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	projectHandler := handlers.NewProjectHandler(projectRepo, purchaseRepo, store, log)

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	public := api.Group("")
	public.Use(middleware.OptionalAuthMiddleware(jwtService))
	{
		public.GET("/projects", projectHandler.ListProjects)
		public.GET("/projects/:id", projectHandler.GetProject)
		public.GET("/projects/:id/purchase-status", projectHandler.GetPurchaseStatus)
		// Free projects download anonymously, the handler gates the rest
		public.GET("/projects/:id/download", projectHandler.DownloadProject)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtService))
	authed.Use(middleware.RequireRole(middleware.Policy{
		"DELETE /api/v1/admin/projects/:id": models.RoleAdmin,
	}))
	{
		authed.POST("/projects", projectHandler.CreateProject)
		authed.GET("/projects/mine", projectHandler.MyProjects)
		authed.DELETE("/projects/:id", projectHandler.DeleteProject)
		// Moderation alias, the policy table keeps it admin-only
		authed.DELETE("/admin/projects/:id", projectHandler.DeleteProject)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Market service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down market service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	redisClient.Close()
}

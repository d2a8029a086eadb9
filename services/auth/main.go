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
	"makerhub/services/auth/handlers"
	"makerhub/services/auth/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "makerhub/docs" // Swagger docs
)

// @title           Auth Service API
// @version         1.0
// @description     Identity and session service for the Makerhub platform

// @host      localhost:8001
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

	jwtService := jwt.NewService(cfg.JWTSecret)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewResetTokenRepository(db)

	authHandler := handlers.NewAuthHandler(userRepo, jwtService, log)
	passwordHandler := handlers.NewPasswordHandler(userRepo, tokenRepo, log)
	verifyHandler := handlers.NewVerifyHandler(userRepo, redisClient, log)
	githubHandler := handlers.NewGithubHandler(userRepo, log)

	r := gin.Default()

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

	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/forgot-password", passwordHandler.ForgotPassword)
		api.POST("/auth/reset-password", passwordHandler.ResetPassword)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtService))
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.POST("/auth/verify/request", verifyHandler.RequestOTP)
		authed.POST("/auth/verify/confirm", verifyHandler.ConfirmOTP)
		authed.POST("/github/connect", githubHandler.Connect)
		authed.GET("/github/repos", githubHandler.ListRepos)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Auth service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down auth service...")

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

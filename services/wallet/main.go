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
	"makerhub/pkg/queue"
	"makerhub/services/wallet/handlers"
	"makerhub/services/wallet/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "makerhub/docs" // Swagger docs
)

// @title           Wallet Service API
// @version         1.0
// @description     Coin balance, top-ups and project purchases for the Makerhub platform

// @host      localhost:8004
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

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, notifications disabled: %v", err)
		queueClient = nil
	}

	if cfg.PaymentDemoMode {
		log.Warn("Payment demo mode is ON, top-ups settle without a provider")
	}

	jwtService := jwt.NewService(cfg.JWTSecret)
	walletRepo := repository.NewWalletRepository(db)

	walletHandler := handlers.NewWalletHandler(walletRepo, queueClient, log)
	paymentHandler := handlers.NewPaymentHandler(walletRepo, redisClient, cfg.PaymentDemoMode, log)

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

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtService))
	{
		authed.GET("/wallet", walletHandler.GetWallet)
		authed.GET("/wallet/transactions", walletHandler.GetTransactions)
		authed.POST("/wallet/purchase/:project_id", walletHandler.PurchaseProject)
		authed.POST("/wallet/topup/initiate", paymentHandler.InitiateTopUp)
		authed.POST("/wallet/topup/verify", paymentHandler.VerifyTopUp)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("Wallet service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down wallet service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if queueClient != nil {
		queueClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	redisClient.Close()
}

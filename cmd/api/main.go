package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/enliven17/mineSomnia/internal/config"
	"github.com/enliven17/mineSomnia/internal/handlers"
	"github.com/enliven17/mineSomnia/internal/middleware"
	"github.com/enliven17/mineSomnia/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	jwtService := services.NewJWTService(cfg)

	var generator services.MineGenerator
	switch cfg.MineGenerator {
	case "fair":
		generator = services.NewFairGenerator()
	default:
		generator = services.NewChainGenerator()
	}

	ledger := services.NewLedger(redisService, generator, cfg.MaxBet)

	wsHandler := handlers.NewWebSocketHandler(redisService)
	ledger.SetBroadcaster(wsHandler)

	authHandler := handlers.NewAuthHandler(redisService, jwtService)
	userHandler := handlers.NewUserHandler(redisService)
	gameHandler := handlers.NewGameHandler(ledger, redisService)
	adminHandler := handlers.NewAdminHandler(ledger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/wallet", authHandler.Authenticate)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.POST("/logout", userHandler.Logout)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		games := protected.Group("/games")
		{
			games.GET("/pool", gameHandler.GetPoolBalance)
			games.GET("/history", gameHandler.GetHistory)

			mines := games.Group("/mines")
			{
				mines.POST("/start", gameHandler.StartGame)
				mines.POST("/reveal", gameHandler.RevealTile)
				mines.POST("/cashout", gameHandler.Cashout)
				mines.GET("/status", gameHandler.GetStatus)
				mines.GET("/multipliers", gameHandler.GetMultipliers)
				mines.GET("/fair", gameHandler.GetVerificationData)
				mines.POST("/fair/rotate", gameHandler.RotateServerSeed)
				mines.POST("/verify", gameHandler.VerifyPlacement)
			}
		}

		wallet := protected.Group("/wallet")
		{
			wallet.GET("/balance", gameHandler.GetBalance)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireAdmin(cfg))
		{
			admin.POST("/pool/deposit", adminHandler.DepositFunds)
			admin.POST("/pool/drain", adminHandler.DrainFunds)
		}
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

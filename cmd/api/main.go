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

	_ "github.com/andreypavlenko/postingguard/docs" // swagger docs

	"github.com/andreypavlenko/postingguard/internal/config"
	"github.com/andreypavlenko/postingguard/internal/platform/archive"
	"github.com/andreypavlenko/postingguard/internal/platform/auth"
	"github.com/andreypavlenko/postingguard/internal/platform/clock"
	httpPlatform "github.com/andreypavlenko/postingguard/internal/platform/http"
	"github.com/andreypavlenko/postingguard/internal/platform/logger"
	"github.com/andreypavlenko/postingguard/internal/platform/postgres"
	"github.com/andreypavlenko/postingguard/internal/platform/redis"
	"github.com/andreypavlenko/postingguard/internal/platform/storage"

	authHandler "github.com/andreypavlenko/postingguard/modules/auth/handler"
	authRepo "github.com/andreypavlenko/postingguard/modules/auth/repository"
	authService "github.com/andreypavlenko/postingguard/modules/auth/service"
	userRepo "github.com/andreypavlenko/postingguard/modules/users/repository"

	applyAdapter "github.com/andreypavlenko/postingguard/modules/apply/adapter"
	applyHandler "github.com/andreypavlenko/postingguard/modules/apply/handler"
	applyRepo "github.com/andreypavlenko/postingguard/modules/apply/repository"
	applyService "github.com/andreypavlenko/postingguard/modules/apply/service"

	decisionHandler "github.com/andreypavlenko/postingguard/modules/decision/handler"

	rulesEngine "github.com/andreypavlenko/postingguard/modules/rules/engine"
	rulesLoader "github.com/andreypavlenko/postingguard/modules/rules/loader"

	scoringHandler "github.com/andreypavlenko/postingguard/modules/scoring/handler"
	scoringRepo "github.com/andreypavlenko/postingguard/modules/scoring/repository"
	scoringService "github.com/andreypavlenko/postingguard/modules/scoring/service"

	runsHandler "github.com/andreypavlenko/postingguard/modules/runs/handler"
	runsRepo "github.com/andreypavlenko/postingguard/modules/runs/repository"
	runsService "github.com/andreypavlenko/postingguard/modules/runs/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title PostingGuard API
// @version 1.0
// @description Authenticity scoring, decision explanation, and auto-apply orchestration for scraped job postings.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@postingguard.example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting PostingGuard API server",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()
	sysClock := clock.System{}

	// Initialize PostgreSQL
	pgClient, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgClient.Close()
	logger.Info("Connected to PostgreSQL")

	// Run database migrations (MANDATORY: must run before HTTP server starts)
	migrationsPath := "./migrations"
	if err := postgres.RunMigrations(ctx, cfg.Database, logger, migrationsPath); err != nil {
		logger.Fatal("Failed to run database migrations",
			zap.Error(err),
			zap.String("migrations_path", migrationsPath),
		)
	}

	// Initialize Redis
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// Initialize S3 client (optional - gracefully handle missing config)
	var s3Client *storage.S3Client
	if cfg.S3.Endpoint != "" && cfg.S3.Bucket != "" {
		s3Client, err = storage.NewS3Client(cfg.S3)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, raw record archiving will be disabled", zap.Error(err))
		} else {
			logger.Info("S3 client initialized", zap.String("bucket", cfg.S3.Bucket))
		}
	} else {
		logger.Info("S3 configuration not provided, raw record archiving will be disabled")
	}
	archiver := archive.NewRawRecordArchiver(s3Client)

	// Load the rule table the Authenticity Scoring Engine evaluates.
	ruleTable, err := rulesLoader.LoadFile(cfg.Scoring.RuleTablePath)
	if err != nil {
		logger.Fatal("Failed to load rule table",
			zap.Error(err),
			zap.String("rule_table_path", cfg.Scoring.RuleTablePath),
		)
	}
	logger.Info("Loaded rule table", zap.Int("rule_count", len(ruleTable.Rules)), zap.String("path", cfg.Scoring.RuleTablePath))
	engine := rulesEngine.New(ruleTable)

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpPlatform.RequestIDMiddleware())
	router.Use(httpPlatform.LoggerMiddleware(logger))
	router.Use(httpPlatform.CORSMiddleware())

	// Swagger documentation (available in development)
	if cfg.Server.Env != "production" {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		logger.Info("Swagger UI available at /swagger/index.html")
	}

	// Health check endpoint
	router.GET("/health", healthCheckHandler(ctx, pgClient, redisClient))

	// Ping endpoint
	router.GET("/ping", pingHandler)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Auth middleware
	authMiddleware := auth.AuthMiddleware(jwtManager)

	// Auth & users wiring
	userRepository := userRepo.NewUserRepository(pgClient.Pool)
	tokenRepository := authRepo.NewRefreshTokenRepository(pgClient.Pool)
	authSvc := authService.NewAuthService(
		userRepository,
		tokenRepository,
		jwtManager,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	authHdl := authHandler.NewAuthHandler(authSvc)

	// Authenticity Scoring Engine wiring
	jobRepository := scoringRepo.NewJobRepository(pgClient.Pool)
	scorer := scoringService.New(engine, sysClock)
	scoringSvc := scoringService.NewJobScoringService(scorer, jobRepository, archiver)
	scoringHdl := scoringHandler.NewScoringHandler(scoringSvc)

	// Decision Explainer wiring
	decisionHdl := decisionHandler.NewDecisionHandler(jobRepository)

	// Task Store + FSM wiring
	taskRepository := applyRepo.NewTaskRepository(pgClient.Pool, sysClock)
	priorityInputAdapter := applyAdapter.NewPriorityInputAdapter(jobRepository)
	taskSvc := applyService.NewTaskService(taskRepository, userRepository, jobRepository, priorityInputAdapter, sysClock)
	applyHdl := applyHandler.NewApplyHandler(taskSvc)

	// Run & Session Store wiring
	runRepository := runsRepo.NewRunRepository(pgClient.Pool, sysClock)
	sessionStore := runsRepo.NewSessionStore(redisClient, cfg.Scoring.SessionTTL, sysClock)
	runSvc := runsService.NewRunService(runRepository, sessionStore, sysClock)
	runHdl := runsHandler.NewRunHandler(runSvc)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		authHdl.RegisterRoutes(v1)
		scoringHdl.RegisterRoutes(v1, authMiddleware)
		decisionHdl.RegisterRoutes(v1, authMiddleware)
		applyHdl.RegisterRoutes(v1, authMiddleware)
		runHdl.RegisterRoutes(v1, authMiddleware)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// healthCheckHandler godoc
// @Summary Health Check
// @Description Check the health status of the application and its dependencies
// @Tags system
// @Produce json
// @Success 200 {object} http.HealthResponse
// @Router /health [get]
func healthCheckHandler(ctx context.Context, pgClient *postgres.Client, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		services := make(map[string]string)

		// Check PostgreSQL
		if err := pgClient.Health(ctx); err != nil {
			services["postgres"] = "down"
		} else {
			services["postgres"] = "up"
		}

		// Check Redis
		if err := redisClient.Health(ctx); err != nil {
			services["redis"] = "down"
		} else {
			services["redis"] = "up"
		}

		httpPlatform.RespondWithHealth(c, services)
	}
}

// pingHandler godoc
// @Summary Ping
// @Description Simple ping endpoint to check if the API is responding
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func pingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

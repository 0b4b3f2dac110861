package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transparency-backend/auth"
	"transparency-backend/config"
	"transparency-backend/handlers"
	"transparency-backend/logging"
	"transparency-backend/render"
	"transparency-backend/repository"
	"transparency-backend/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const shutdownTimeout = 15 * time.Second

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ApplyMode()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	// Initialize repositories
	stores, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.String("driver", cfg.Store), zap.Error(err))
	}
	defer stores.Close(context.Background()) //nolint:errcheck

	// Initialize Gemini client
	geminiClient, err := initGemini(ctx, cfg.Gemini, logger)
	if err != nil {
		logger.Fatal("Failed to initialize Gemini", zap.Error(err))
	}
	defer geminiClient.Close()

	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		logger.Fatal("Failed to initialize token verifier", zap.Error(err))
	}

	// Initialize services
	generator := service.NewGeminiGenerator(geminiClient,
		service.GeminiWithModel(cfg.Gemini.Model),
		service.GeminiWithTemperature(cfg.Gemini.Temperature),
		service.GeminiWithTimeout(cfg.Gemini.Timeout),
		service.GeminiWithRetries(cfg.Gemini.MaxRetries),
		service.GeminiWithBackoff(cfg.Gemini.Backoff),
		service.GeminiWithLogger(logger.Named("gemini")),
	)

	interviewService := service.NewInterviewService(
		service.WithQuestionAnswerRepository(stores.QuestionAnswers),
		service.WithReportRepository(stores.Reports),
		service.WithRecentRepository(stores.Recents),
		service.WithGenerator(generator),
		service.WithAssembler(render.NewAssembler()),
		service.WithLogger(logger.Named("interview")),
	)

	// Initialize handlers
	interviewHandler := handlers.NewInterviewHandler(interviewService)
	reportHandler := handlers.NewReportHandler(interviewService)

	// Setup Gin router
	r := gin.New()
	r.Use(logging.Middleware(logger), logging.Recovery(logger))
	r.Use(cors.New(corsConfig(cfg.CORSAllowOrigins)))

	// Health check endpoints
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api", auth.Middleware(verifier))
	handlers.RegisterRoutes(api, interviewHandler, reportHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", zap.Error(err))
	}
}

func initGemini(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*genai.Client, error) {
	if cfg.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}

	logger.Info("Gemini client initialized", zap.String("model", cfg.Model))
	return client, nil
}

func corsConfig(origins []string) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", logging.RequestIDHeader)
	cc.ExposeHeaders = []string{"Content-Disposition", logging.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}

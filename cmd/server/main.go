// @title           Ad Studio Backend API
// @version         1.0.0
// @description     Backend API for bulk marketing content generation. Handles CSV batch submission, assistant-driven copy and image generation, the image library and editor, and Jira-backed campaign calendar sync.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"adstudio-backend/docs"
	"adstudio-backend/internal/batch"
	"adstudio-backend/internal/config"
	"adstudio-backend/internal/database"
	"adstudio-backend/internal/googleai"
	"adstudio-backend/internal/handlers"
	"adstudio-backend/internal/middleware"
	"adstudio-backend/internal/openai"
	"adstudio-backend/internal/services"
	"adstudio-backend/internal/supabase"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	// Swagger host tracks the deployed base URL.
	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database client")
	}
	defer dbClient.Close()

	migrator, err := database.NewMigrator(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize migrator")
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		log.Fatal().Err(err).Msg("migration failed")
	}
	migrator.Close()
	log.Info().Msg("migrations completed")

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize supabase client")
	}

	imageStorage, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseImageBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize image storage client")
	}
	csvStorage, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseCSVBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize csv storage client")
	}

	openaiClient := openai.NewClient(openai.Options{
		BaseURL:      cfg.OpenAIBaseURL,
		APIKey:       cfg.OpenAIAPIKey,
		PollAttempts: cfg.RunPollAttempts,
		PollInterval: cfg.RunPollInterval,
	})
	googleClient := googleai.NewClient(googleai.Options{
		BaseURL:     cfg.GoogleBaseURL,
		APIKey:      cfg.GoogleAPIKey,
		ImagenModel: cfg.ImagenModel,
		EditModel:   cfg.GeminiEditModel,
	})

	// Batches launched before shutdown finish their current chunk and stop.
	baseCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline := batch.NewPipeline(openaiClient, googleClient, imageStorage, dbClient, cfg.OpenAIAssistantID, log)
	orchestrator := batch.NewOrchestrator(dbClient, pipeline, cfg.ChunkDelay, log)
	batchService := services.NewBatchService(baseCtx, orchestrator, dbClient, log)

	healthHandler := handlers.NewHealthHandler(supabaseClient)
	bulkHandler := handlers.NewBulkHandler(cfg, dbClient, csvStorage, batchService, log)
	batchesHandler := handlers.NewBatchesHandler(cfg, dbClient, imageStorage, csvStorage, batchService, log)
	generateHandler := handlers.NewGenerateHandler(dbClient, imageStorage, googleClient, log)
	imagesHandler := handlers.NewImagesHandler(dbClient, imageStorage, googleClient, log)
	jiraHandler := handlers.NewJiraHandler(dbClient, log)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", healthHandler.Health)

	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	api.POST("/bulk-csv-process", bulkHandler.ProcessCSV)

	api.GET("/batches", batchesHandler.List)
	api.GET("/batches/:batch_id", batchesHandler.Get)
	api.GET("/batches/:batch_id/rows", batchesHandler.Rows)
	api.POST("/batches/:batch_id/requeue", batchesHandler.Requeue)
	api.DELETE("/batches/:batch_id", batchesHandler.Delete)

	api.POST("/generate", generateHandler.Generate)
	api.GET("/images", imagesHandler.List)
	api.POST("/images/:image_id/edit", imagesHandler.Edit)

	api.POST("/jira/connect", jiraHandler.Connect)
	api.POST("/jira/sync", jiraHandler.Sync)
	api.DELETE("/jira/:org_id", jiraHandler.Disconnect)
	api.GET("/calendar", jiraHandler.Calendar)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-baseCtx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	batchService.Wait()
	log.Info().Msg("stopped")
}

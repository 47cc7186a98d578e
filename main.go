package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Tototoyo/cctv-pr/internal/api"
	"github.com/Tototoyo/cctv-pr/internal/api/handlers"
	"github.com/Tototoyo/cctv-pr/internal/config"
	"github.com/Tototoyo/cctv-pr/internal/database"
	"github.com/Tototoyo/cctv-pr/internal/llm"
	"github.com/Tototoyo/cctv-pr/internal/metrics"
	"github.com/Tototoyo/cctv-pr/internal/observability"
	"github.com/Tototoyo/cctv-pr/internal/services"
	"github.com/Tototoyo/cctv-pr/internal/supabase"
	"github.com/Tototoyo/cctv-pr/pkg/sse"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	sentryFlushTimeout = 2 * time.Second
	shutdownTimeout    = 10 * time.Second
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "cctv-pr@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            !cfg.IsProduction(),
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	repo, err := openPromptRepository(cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to open prompt store:", err)
	}

	cloudwatch, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		log.Printf("⚠️  CloudWatch metrics disabled: %v", err)
	}
	defer cloudwatch.Wait()
	recorder := metrics.NewRecorder(metrics.NewSentryMetrics(), cloudwatch)

	langfuse := observability.InitializeLangfuse(ctx, cfg)

	factory := llm.NewProviderFactory(
		llm.OpenAIConfig{APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		llm.GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel},
	)
	provider, err := factory.GetProvider(ctx, cfg.GenerationBackend)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to initialize generation backend:", err)
	}
	log.Printf("🤖 Generation backend: %s", provider.Name())

	gateway := services.NewPromptGateway(repo, recorder)
	generation := services.NewGenerationService(provider, gateway, recorder, langfuse)

	hub := sse.NewHub()
	go hub.Run(ctx)

	generation.Subscribe(func(result services.GenerationResult) {
		var promptID string
		if result.Record != nil {
			promptID = result.Record.ID
		}
		handlers.PublishPromptsChanged(hub, handlers.ReasonGenerated, promptID)
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(api.Dependencies{
		Config:     cfg,
		Generation: generation,
		Prompts:    gateway,
		Events:     hub,
		CloudWatch: cloudwatch,
		Version:    GetVersion(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
	log.Println("👋 Server stopped")
}

// openPromptRepository returns the prompt store selected by STORE_BACKEND
func openPromptRepository(cfg *config.Config) (services.PromptRepository, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		log.Println("🗄️  Prompt store: postgres")
		return database.NewPromptRepository(db), nil
	default:
		log.Printf("🗄️  Prompt store: supabase (%s)", cfg.SupabaseURL)
		return supabase.NewPromptRepository(supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)), nil
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
		"apikey":        true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}

// Command server runs the voicescribe HTTP service: an audio upload gateway
// that dispatches transcription to a configured speech provider.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/honeyvig/voicescribe/api"
	"github.com/honeyvig/voicescribe/config"
	"github.com/honeyvig/voicescribe/logger"
	"github.com/honeyvig/voicescribe/observability"
	"github.com/honeyvig/voicescribe/provider"
	"github.com/honeyvig/voicescribe/server"
	"github.com/honeyvig/voicescribe/server/endpoint"
	"github.com/honeyvig/voicescribe/transcription"
	"github.com/honeyvig/voicescribe/transcription/google"
	"github.com/honeyvig/voicescribe/transcription/whisper"
	"github.com/honeyvig/voicescribe/util"
	"github.com/honeyvig/voicescribe/version"
)

const serviceName = "voicescribe"

func main() {
	cfg, err := config.LoadService(serviceName)
	if err != nil {
		logger.NewDefault(serviceName).Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)

	log.Info("Starting service", logger.Fields(
		"version", version.Short(),
		"environment", cfg.Environment,
		logger.FieldProvider, cfg.Transcription.Provider,
		"credential", credentialSummary(cfg),
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownObservability, err := observability.Init(ctx, cfg.Observability, cfg.Name, version.Get().Version, cfg.Environment)
	if err != nil {
		log.Fatal("Failed to initialize observability", logger.Fields("error", err.Error()))
	}

	backend, err := buildProvider(cfg)
	if err != nil {
		log.Fatal("Failed to create transcription provider", logger.Fields(
			logger.FieldProvider, cfg.Transcription.Provider,
			"error", err.Error(),
		))
	}

	metrics, err := observability.NewTranscriptionMetrics()
	if err != nil {
		log.Fatal("Failed to create metrics", logger.Fields("error", err.Error()))
	}

	svc, err := transcription.NewService(cfg.Transcription, backend, log.WithComponent("transcription"), metrics)
	if err != nil {
		log.Fatal("Failed to create transcription service", logger.Fields("error", err.Error()))
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyDefaults(cfg.Name, providerHealth(svc))
	api.NewHandler(svc, log.WithComponent("api")).RegisterRoutes(srv.GinEngine())

	if err := srv.Start(ctx); err != nil {
		log.Fatal("Failed to start server", logger.Fields("error", err.Error()))
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx := context.Background()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", logger.Fields("error", err.Error()))
	}
	if err := shutdownObservability(shutdownCtx); err != nil {
		log.Error("Observability shutdown failed", logger.Fields("error", err.Error()))
	}

	log.Info("Service stopped")
	os.Exit(0)
}

// buildProvider resolves the configured backend through the factory registry.
func buildProvider(cfg *config.Config) (transcription.Provider, error) {
	registry := provider.NewRegistry[transcription.Provider]()
	registry.RegisterFactory(google.ProviderName, google.Factory())
	registry.RegisterFactory(whisper.ProviderName, whisper.Factory())

	backend, err := registry.Create(cfg.Transcription.Provider, cfg.ProviderSettings())
	if err != nil {
		return nil, err
	}
	registry.Set(cfg.Transcription.Provider, backend)
	return backend, nil
}

// credentialSummary describes the configured provider credential without
// exposing it.
func credentialSummary(cfg *config.Config) string {
	switch {
	case cfg.Google.Token != "":
		return "token " + util.MaskSecret(cfg.Google.Token, 4)
	case cfg.Google.APIKey != "":
		return "api_key " + util.MaskSecret(cfg.Google.APIKey, 4)
	default:
		return "none"
	}
}

// providerHealth reports the selected backend's availability on /health.
func providerHealth(svc *transcription.Service) endpoint.HealthChecker {
	return func(ctx context.Context) []endpoint.ComponentHealth {
		backend := svc.Provider()
		status := endpoint.StatusHealthy
		if !backend.IsAvailable(ctx) {
			status = endpoint.StatusUnhealthy
		}
		return []endpoint.ComponentHealth{{
			Name:   "provider:" + backend.Name(),
			Status: status,
		}}
	}
}

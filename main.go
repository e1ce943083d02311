package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/dqanalyst/dq-engine/pkg/advice"
	"github.com/dqanalyst/dq-engine/pkg/config"
	"github.com/dqanalyst/dq-engine/pkg/handlers"
	"github.com/dqanalyst/dq-engine/pkg/middleware"
	"github.com/dqanalyst/dq-engine/pkg/rules"
	"github.com/dqanalyst/dq-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.Int("sampling_cap", cfg.Sampling.Cap),
		zap.Float64("fk_overlap_pct", cfg.Discovery.FKOverlapPct),
		zap.String("rules_path", cfg.Rules.Path),
		zap.Bool("advice_available", cfg.Advice.IsAvailable()))

	ruleSet, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		logger.Fatal("Failed to load cross-field rules", zap.Error(err))
	}

	adviceClient, err := advice.NewClient(&cfg.Advice, logger)
	if err != nil {
		logger.Fatal("Failed to create advice client", zap.Error(err))
	}
	advisor := advice.NewService(adviceClient, logger)

	workspaceService := services.NewWorkspaceService(logger)
	analysisService := services.NewAnalysisService(workspaceService, cfg, ruleSet, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewWorkspaceHandler(workspaceService, logger).RegisterRoutes(mux)
	handlers.NewDatasetHandler(workspaceService, cfg, logger).RegisterRoutes(mux)
	handlers.NewViewHandler(workspaceService, logger).RegisterRoutes(mux)
	handlers.NewAnalysisHandler(analysisService, logger).RegisterRoutes(mux)
	handlers.NewAdviceHandler(analysisService, advisor, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting dq-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

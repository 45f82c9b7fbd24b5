package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/solguard/scan-orchestrator/api/handlers/http"
	"github.com/solguard/scan-orchestrator/app"
	"github.com/solguard/scan-orchestrator/config"
	appContext "github.com/solguard/scan-orchestrator/pkg/context"
	"github.com/solguard/scan-orchestrator/pkg/logger"
)

var configPath = flag.String("config", "config.json", "service configuration file")

func main() {
	flag.Parse()
	if v := os.Getenv("CONFIG_PATH"); len(v) > 0 {
		*configPath = v
	}
	cfg := config.MustReadConfig(*configPath)

	// Initialize global logger early
	if err := logger.InitGlobalLogger(cfg.Logger); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}

	globalLogger := logger.GetGlobalLogger()
	appContext.SetDefaultLogger(globalLogger.CoreLogger.Logger)

	coreLogger, err := logger.NewCoreLogger(cfg.Logger)
	if err != nil {
		logger.Fatal("Failed to create core logger: %v", err)
	}

	coreLogger.Info("Starting scan orchestrator service")
	coreLogger.InfoWithFields("Configuration loaded", map[string]interface{}{
		"config_path": *configPath,
		"log_level":   cfg.Logger.Level,
		"log_output":  cfg.Logger.Output,
	})

	appContainer := app.NewMustApp(cfg)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	coreLogger.Info("Starting registry janitor...")
	appContainer.StartJanitor()

	go func() {
		sig := <-signalChan
		coreLogger.InfoWithFields("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})

		coreLogger.Info("Stopping registry janitor...")
		appContainer.StopJanitor()

		coreLogger.Info("Graceful shutdown completed")
		os.Exit(0)
	}()

	coreLogger.Info("Starting HTTP server")
	if err := http.Run(appContainer, cfg.Server); err != nil {
		coreLogger.Fatal("HTTP server failed: %v", err)
	}
}

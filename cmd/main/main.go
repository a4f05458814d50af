package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	conf "github.com/catourne/equipment-exporter/config"
	"github.com/catourne/equipment-exporter/internal/app"
	"github.com/catourne/equipment-exporter/internal/model"
)

func Run() error {
	// Load configuration
	config, appErr := conf.LoadConfig()
	if appErr != nil {
		slog.Error("equipment_exporter.main.configuration_error", slog.String("error", appErr.Error()))
		return appErr
	}

	setupLogging(config)

	// Initialize the application
	application, appErr := app.New(config)
	if appErr != nil {
		slog.Error("equipment_exporter.main.application_initialization_error", slog.String("error", appErr.Error()))
		return appErr
	}

	// Log the configuration
	slog.Debug("equipment_exporter.main.configuration_loaded",
		slog.String("base_url", config.API.BaseURL),
		slog.String("output_dir", config.Export.OutputDir),
		slog.Duration("request_interval", config.API.RequestInterval),
	)

	// Run the pipeline; a kill signal cancels the context and the run stops
	// at the next API call.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("equipment_exporter.main.starting_export",
		slog.String("service", model.AppServiceName),
		slog.String("namespace", model.NamespaceName),
		slog.String("version", model.CurrentVersion),
	)
	if startErr := application.Run(ctx); startErr != nil {
		slog.Error("equipment_exporter.main.export_error", slog.String("error", startErr.Error()))
		return startErr
	}
	slog.Info("equipment_exporter.main.export_complete")
	return nil
}

// setupLogging routes diagnostics to stderr so the progress bar owns stdout.
func setupLogging(config *conf.AppConfig) {
	level := slog.LevelWarn
	if config.Export.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

package app

import (
	"log/slog"

	"github.com/catourne/equipment-exporter/auth"
	cfg "github.com/catourne/equipment-exporter/config"
	"github.com/catourne/equipment-exporter/internal/client"
	"github.com/catourne/equipment-exporter/internal/errors"
	"github.com/catourne/equipment-exporter/internal/render"
	"github.com/catourne/equipment-exporter/internal/store"
	"github.com/catourne/equipment-exporter/internal/store/export"
)

type App struct {
	Config *cfg.AppConfig
	log    *slog.Logger
	client *client.Client
	store  store.ExportStore
	labels render.Labels
}

// New creates a fully initialized App. Loading the token happens here, before
// any API call: a missing token must abort the run as a configuration error.
func New(config *cfg.AppConfig) (*App, error) {
	app := &App{
		Config: config,
		log:    slog.Default(),
	}

	if err := app.initClient(); err != nil {
		return nil, err
	}
	if err := app.initStore(); err != nil {
		return nil, err
	}
	app.labels = render.LoadLabels()

	return app, nil
}

// --------- Private init methods ---------

func (app *App) initClient() error {
	token, err := auth.LoadToken(app.Config.API.TokenFile)
	if err != nil {
		return err
	}
	app.client = client.New(app.Config.API, token, app.log)
	return nil
}

func (app *App) initStore() error {
	fileStore := export.New(app.Config.Export.OutputDir, app.Config.Export.SheetsDir)
	if err := fileStore.Open(); err != nil {
		return errors.New("unable to initialize export directories", errors.WithCause(err))
	}
	app.store = fileStore
	return nil
}

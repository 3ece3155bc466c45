package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/poofware/handbook-service/internal/config"
	"github.com/poofware/handbook-service/internal/controllers"
	"github.com/poofware/handbook-service/internal/repositories"
	"github.com/poofware/handbook-service/internal/routes"
	"github.com/poofware/handbook-service/internal/services"
	"github.com/poofware/handbook-service/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool

	Handbooks repositories.HandbookRepository
	Versions  repositories.HandbookVersionRepository
	Elements  repositories.HandbookElementRepository

	HandbookService services.HandbookService
	ElementService  services.ElementService
}

// NewApp connects to Postgres with exponential backoff and wires the
// repositories and services on top of the pool.
func NewApp(cfg *config.Config) (*App, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		dbPool, err = connect(cfg.DBUrl)
		if err == nil {
			utils.Logger.Infof("%s connected to DB on attempt %d", cfg.AppName, i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	return New(cfg, dbPool), nil
}

// New wires an App around an existing pool.
func New(cfg *config.Config, dbPool *pgxpool.Pool) *App {
	handbooks := repositories.NewHandbookRepository(dbPool)
	versions := repositories.NewHandbookVersionRepository(dbPool)
	elements := repositories.NewHandbookElementRepository(dbPool)

	return &App{
		Config:          cfg,
		DB:              dbPool,
		Handbooks:       handbooks,
		Versions:        versions,
		Elements:        elements,
		HandbookService: services.NewHandbookService(handbooks, versions),
		ElementService:  services.NewElementService(versions, elements),
	}
}

// Router builds the HTTP routes for this App.
func (a *App) Router() *mux.Router {
	return routes.NewRouter(routes.Controllers{
		Health:   controllers.NewHealthController(a.DB),
		Handbook: controllers.NewHandbookController(a.HandbookService, a.Config.Pagination),
		Element:  controllers.NewElementController(a.ElementService, a.Config.Pagination),
	})
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Infof("%s DB connection closed.", a.Config.AppName)
	}
}

func connect(databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

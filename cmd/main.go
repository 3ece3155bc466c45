package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/poofware/handbook-service/internal/app"
	"github.com/poofware/handbook-service/internal/config"
	"github.com/poofware/handbook-service/internal/repositories"
	"github.com/poofware/handbook-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)

	if err := newRootCommand().Execute(); err != nil {
		utils.Logger.WithError(err).Fatalf("%s exited with error", config.AppName)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Handbook reference-data API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.AddCommand(serve, newSeedCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func newSeedCommand() *cobra.Command {
	var withSchema bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo Currencies handbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			defer cfg.Close()

			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			ctx := cmd.Context()
			if withSchema {
				if err := repositories.ApplySchema(ctx, application.DB); err != nil {
					return err
				}
				utils.Logger.Info("Schema applied")
			}
			return app.SeedTestData(ctx, application)
		},
	}
	cmd.Flags().BoolVar(&withSchema, "with-schema", false, "create tables before seeding")
	return cmd
}

func serve(ctx context.Context) error {
	cfg := config.LoadConfig()
	defer cfg.Close()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize handbook-service:", err)
	}
	defer application.Close()

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedTestData(ctx, application); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed test data")
		}
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           co.Handler(application.Router()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		utils.Logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

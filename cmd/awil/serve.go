package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielk69/AWIL/app"
	"github.com/danielk69/AWIL/auth"
	"github.com/danielk69/AWIL/importer"
	"github.com/danielk69/AWIL/models"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	e, err := setup(opts, true)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.cfg.Auth.Validate(); err != nil {
		return err
	}

	catalog := models.NewCatalogRepository(e.db)
	tokens := auth.NewTokenIssuer(e.cfg.Auth.JWTSecret, e.cfg.Auth.TokenTTL)

	handler := app.NewRouter(app.Dependencies{
		Catalog:        catalog,
		Importer:       importer.New(importer.NewStore(catalog), importer.WithLogger(e.logger)),
		Auth:           auth.NewService(models.NewAdminRepository(e.db), tokens, e.logger),
		Tokens:         tokens,
		MaxUploadBytes: e.cfg.Import.MaxUploadBytes,
		Logger:         e.logger,
	})

	srv := &http.Server{
		Addr:              e.cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.logger.Info("Starting server",
			zap.String("addr", srv.Addr),
			zap.String("env", e.cfg.Env),
			zap.String("db_driver", e.cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		e.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/catalog"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/server"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/web"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the storefront HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.log
	if ctx == nil {
		ctx = context.Background()
	}

	log.Info("starting storefront server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"snapshot", cfg.Catalog.SnapshotPath(),
	)

	remote, closeRemote, err := openRemote(ctx, cfg.Remote, log)
	if err != nil {
		return err
	}
	defer closeRemote()

	loader := catalog.NewLoader(remote, cfg.Catalog.SnapshotPath(), log)

	// Startup probe: one load, logged, so a misconfigured store shows up before the first visitor
	probe := loader.Load(ctx)
	log.Info("catalog ready",
		"source", probe.Source,
		"products", len(probe.Products),
	)

	renderer, err := web.NewRenderer(language.French, cfg.Order.Currency)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	r := server.NewRouter(server.Dependencies{
		Config:   cfg,
		Catalog:  loader,
		Renderer: renderer,
		Logger:   log,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

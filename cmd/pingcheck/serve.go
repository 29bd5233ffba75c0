package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pingcheck/internal/apperr"
	"pingcheck/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the connection checker page",
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "address for the web server (overrides listen_addr)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.ListenAddr = addr
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	chk := newChecker(cfg, logger)
	srv := server.New(cfg.ListenAddr, chk, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("pingcheck listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("project_id", cfg.ProjectID))
	if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return apperr.Wrap(err, apperr.CodeServerListenFailure, "serve", apperr.Field("addr", cfg.ListenAddr))
	}

	chk.Wait()
	return nil
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/edusign/edusign/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recognition and remote quiz sessions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer rt.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			rt.cfg.Server.Addr = addr
		}

		srv := server.New(rt.cfg.Server, server.Deps{
			Recognizer: rt.recognizer,
			Catalog:    rt.catalog,
			Quiz:       rt.cfg.Quiz,
			Journal:    rt.journal,
			Logger:     rt.logger,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.Listen()
		}()

		select {
		case <-ctx.Done():
			rt.logger.Info("received shutdown signal")
		case err := <-errChan:
			if err != nil {
				rt.logger.Error("server error", "error", err)
				return err
			}
		}

		rt.logger.Info("shutting down gracefully", "timeout", shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			rt.logger.Error("shutdown failed", "error", err)
			return err
		}
		rt.logger.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}

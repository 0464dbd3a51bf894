package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-builder/internal/adapter/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default $PORT or 3000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if servePort != "" {
		port = servePort
	}

	var lister httpadapter.ExportLister
	if a.jobs != nil {
		lister = a.jobs
	}
	h := httpadapter.NewHandler(a.editor, a.auth, lister, a.logger)
	server := httpadapter.NewApp(h)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", zap.String("port", port), zap.String("storage", a.cfg.StorageDriver))
		errCh <- server.Listen(":" + port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.ShutdownWithContext(shutdownCtx)
}

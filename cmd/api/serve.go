package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/handlers"
	"github.com/akolanti/FinalGuardian/internal/middleware"
	"github.com/akolanti/FinalGuardian/internal/server"
	"github.com/akolanti/FinalGuardian/internal/telemetry"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().String("listen-addr", "", "server listen address (default $QUIZ_LISTEN_ADDR or "+config.ServerListenAddr+")")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := setup(os.Stdout)
	if err != nil {
		return err
	}
	logger := logger_i.NewLogger("main")

	listenAddr, _ := cmd.Flags().GetString("listen-addr")
	if listenAddr == "" {
		listenAddr = settings.ListenAddr
	}

	environment := "development"
	if settings.IsProd {
		environment = "production"
	}
	flush := telemetry.Init(telemetry.Config{DSN: settings.SentryDSN, Environment: environment})

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	parts, err := buildComponents(serviceContext, settings)
	if err != nil {
		logger.Error("One or more external services failed to initialize. Shutting down.", "error", err)
		return err
	}

	if settings.NoAuthBypass() {
		logger.Warn("QUIZ_AUTH_TOKEN is empty, the API is open")
	}
	chain := middleware.New(middleware.Options{AuthToken: settings.AuthToken})
	router := server.NewRouter(handlers.NewRequestHandler(parts.service, config.UploadTempDir), chain)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	go server.ShutDownHandler(server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
		Flush:            flush,
	})
	go server.CreateServer(listenAddr, router)

	<-stopExecution
	logger.Info("Server stopped")
	return nil
}

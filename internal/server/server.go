package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/FinalGuardian/internal/adapter/utils"
	"github.com/akolanti/FinalGuardian/internal/config"
	"github.com/akolanti/FinalGuardian/internal/handlers"
	"github.com/akolanti/FinalGuardian/internal/middleware"
	"github.com/akolanti/FinalGuardian/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var (
	server     *http.Server
	_logger    *logger_i.Logger
	loggerOnce sync.Once
)

// the logger is built after logger_i.Init has run
func serverLogger() *logger_i.Logger {
	loggerOnce.Do(func() { _logger = logger_i.NewLogger("Server") })
	return _logger
}

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
	Flush            func()
}

// NewRouter registers every endpoint behind the middleware chain.
func NewRouter(h *handlers.RequestHandler, chain *middleware.Chain) *chi.Mux {
	r := utils.NewRouter(middleware.Sentry)

	r.Get("/ping", chain.Wrap(h.PingHandler))
	r.Post("/upload", chain.Wrap(h.UploadHandler))
	r.Post("/generate-quiz", chain.Wrap(h.GenerateQuizHandler))
	r.Post("/evaluate-all", chain.Wrap(h.EvaluateAllHandler))
	r.Post("/chat", chain.Wrap(h.ChatHandler))
	return r
}

func CreateServer(listenAddr string, handler http.Handler) {
	server = &http.Server{
		Addr:         listenAddr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	serverLogger().Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		serverLogger().Error("Server crashed", "error", err, "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	if _logger == nil {
		}
	serverLogger().Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				serverLogger().Error("Could not shutdown gracefully", "error", err)
			}
		}

		shutdownParams.CloseServices()
		if shutdownParams.Flush != nil {
			shutdownParams.Flush()
		}
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		serverLogger().Info("Gracefully shut down")
	case <-ctx.Done():
		serverLogger().Info("Force Shut down")
		os.Exit(1)
	}
}

// cmd/concierge/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"property-concierge/internal/catalog"
	"property-concierge/internal/common/config"
	"property-concierge/internal/common/logger"
	"property-concierge/internal/common/observability"
	"property-concierge/internal/dispatch"
	"property-concierge/internal/server"
	"property-concierge/internal/transcript"
	"property-concierge/internal/workflow"
)

func main() {
	bootLog := logger.New("info", "console")
	bootLog.Info("Starting property concierge...")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	cat := catalog.Seed()
	tr := transcript.New()

	dispatcher := dispatch.NewDispatcher(cfg.Notifications, log, obs)

	controller := workflow.NewController(cat, tr, dispatcher, log, workflow.Options{
		ViewingSlots:  cfg.Viewing.Slots,
		FallbackPhone: cfg.Notifications.Fallback.Phone,
		FallbackEmail: cfg.Notifications.Fallback.Email,
	})
	controller.Start()

	srv := server.New(cfg.Server, controller, log)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zapLog.Fatal("server failed", zap.Error(err))
	case sig := <-sigCh:
		zapLog.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Warn("graceful shutdown failed", zap.Error(err))
	}
}

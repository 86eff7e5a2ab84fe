package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "FxDesk/internal/domain/repository"
	"FxDesk/internal/usecase"
	"FxDesk/pkg/cache"
	"FxDesk/pkg/config"
	xhttp "FxDesk/pkg/http"
	applogger "FxDesk/pkg/logger"
	"FxDesk/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	refresher  *usecase.Refresher
	queue      *queue.RedisQueue
	publisher  domrepo.Publisher
	redisCache *cache.RedisCache
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	refresher *usecase.Refresher,
	q *queue.RedisQueue,
	publisher domrepo.Publisher,
	redisCache *cache.RedisCache,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		handler:    handler,
		refresher:  refresher,
		queue:      q,
		publisher:  publisher,
		redisCache: redisCache,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// queue first so the initial refresh can enqueue headline work
	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			a.log.Error("queue start failed", applogger.Error(err))
		} else {
			a.log.Info("translation queue started")
		}
	}

	if err := a.refresher.Start(ctx); err != nil {
		return err
	}
	a.log.Info("feed refresher started",
		applogger.Duration("news_interval", a.cfg.Feeds.RefreshInterval),
		applogger.Duration("quotes_interval", a.cfg.Quotes.RefreshInterval),
	)

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start failed", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.refresher.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			a.log.Warn("queue stop error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			a.log.Warn("redis close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}

package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SignalDesk/internal/handler/api"
	"SignalDesk/internal/usecase"
	pkgch "SignalDesk/pkg/clickhouse"
	"SignalDesk/pkg/config"
	xhttp "SignalDesk/pkg/http"
	pkgkafka "SignalDesk/pkg/kafka"
	applogger "SignalDesk/pkg/logger"
	pkgpg "SignalDesk/pkg/postgres"
	"SignalDesk/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    *api.SignalsHandler
	consumer   *pkgkafka.Consumer
	kh         *usecase.KafkaBarsHandler
	queue      *queue.RedisQueue
	proc       *usecase.BarProcessor
	pgClient   *pkgpg.Client
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler *api.SignalsHandler,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaBarsHandler,
	q *queue.RedisQueue,
	proc *usecase.BarProcessor,
	pgClient *pkgpg.Client,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		handler:  handler,
		consumer: consumer,
		kh:       kh,
		queue:    q,
		proc:     proc,
		pgClient: pgClient,
		chClient: chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	l := a.logger

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start Kafka consumer when the ingest path runs through the broker
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start refresh queue workers
	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			l.Error("refresh queue start error", applogger.Error(err))
		} else {
			l.Info("refresh queue started")
		}
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	l := a.logger

	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.queue != nil {
		if err := a.queue.Stop(ctx); err != nil {
			l.Warn("refresh queue stop error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close processor resources (publisher/storage)
	if a.proc != nil {
		a.proc.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.pgClient != nil {
		if err := a.pgClient.Close(); err != nil {
			l.Warn("postgres close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}

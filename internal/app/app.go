package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mwhitfield/jobwatch/internal/config"
	"github.com/mwhitfield/jobwatch/internal/delivery/httpapi"
	"github.com/mwhitfield/jobwatch/internal/infra/boards"
	"github.com/mwhitfield/jobwatch/internal/infra/db"
	"github.com/mwhitfield/jobwatch/internal/infra/log"
	"github.com/mwhitfield/jobwatch/internal/infra/notify"
	"github.com/mwhitfield/jobwatch/internal/scheduler"
	"github.com/mwhitfield/jobwatch/internal/usecase"
	"go.uber.org/zap"
)

type App struct {
	server    *http.Server
	scheduler *scheduler.Scheduler
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	watchRepo := db.NewWatchRepo(dbConn)
	alertRepo := db.NewAlertRepo(dbConn)

	boardClient := boards.NewClient(boards.Config{
		GreenhouseBaseURL: cfg.GreenhouseBaseURL,
		LeverBaseURL:      cfg.LeverBaseURL,
		AshbyBaseURL:      cfg.AshbyBaseURL,
		Timeout:           cfg.SourceTimeout,
	}, logger)

	slack := notify.NewSlackNotifier(cfg.SlackWebhookURL, cfg.NotifyTimeout, logger)
	email := notify.NewEmailNotifier(notify.EmailConfig{
		APIURL:  cfg.ResendAPIURL,
		APIKey:  cfg.ResendAPIKey,
		To:      cfg.AlertEmailTo,
		From:    cfg.AlertEmailFrom,
		Timeout: cfg.NotifyTimeout,
	}, logger)

	watchUC := usecase.NewWatchUsecase(watchRepo, boardClient, boardClient)
	alertUC := usecase.NewAlertUsecase(alertRepo, watchRepo)
	checkUC := usecase.NewCheckUsecase(watchRepo, alertRepo, boardClient, slack, email, logger)

	handler := httpapi.NewHandler(watchUC, alertUC, checkUC, cfg.CronSecret, cfg.CheckMaxRuntime, logger)
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sched := scheduler.New(checkUC, cfg.CheckSchedule, cfg.CheckMaxRuntime, logger)

	cleanup := func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return &App{server: server, scheduler: sched, logger: logger, cleanupFn: cleanup}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("jobwatch service starting", zap.String("addr", a.server.Addr))

	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	a.logger.Info("jobwatch service started")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (a *App) Shutdown() {
	a.logger.Info("jobwatch service shutting down")
	a.scheduler.Stop()
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"task-api/internal/config"
	"task-api/internal/httpapi"
	"task-api/internal/logger"
	"task-api/internal/notify"
	"task-api/internal/repository"
	"task-api/internal/service"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "server configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		bootLog := logger.New("info", "json", os.Stderr)
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("db handle")
	}
	defer sqlDB.Close()

	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	taskSvc := service.NewTaskService(taskRepo, categoryRepo)
	categorySvc := service.NewCategoryService(categoryRepo, taskRepo)
	statsSvc := service.NewStatsService(taskRepo, categoryRepo)

	if cfg.DigestEnabled() {
		scheduler, err := startDigest(cfg, log, service.NewDigestService(taskRepo, categoryRepo))
		if err != nil {
			log.Fatal().Err(err).Msg("digest scheduler")
		}
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr: cfg.HTTP.Address,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Log:        log,
			Tasks:      taskSvc,
			Categories: categorySvc,
			Stats:      statsSvc,
			DB:         sqlDB,
			Timeout:    cfg.HTTP.Timeout,
		}),
		ReadHeaderTimeout: cfg.HTTP.Timeout,
		ReadTimeout:       2 * cfg.HTTP.Timeout,
		WriteTimeout:      2 * cfg.HTTP.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("database", cfg.DatabaseURL).Msg("server starting")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			return
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
		return
	}
	log.Info().Msg("shutdown complete")
}

// startDigest schedules the overdue digest, delivered to Telegram when a bot
// token is configured and to the log otherwise.
func startDigest(cfg config.Config, log zerolog.Logger, digest *service.DigestService) (*service.SchedulerService, error) {
	var sender notify.Sender = notify.LogSender{Log: log}
	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegramSender(cfg.Telegram.Token, cfg.Telegram.APIEndpoint, cfg.Telegram.ChatID)
		if err != nil {
			return nil, err
		}
		log.Info().Str("bot", tg.BotName()).Msg("telegram digest enabled")
		sender = tg
	}

	job := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := digest.Notify(jobCtx, sender, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("overdue digest")
			return
		}
		log.Debug().Int("overdue", n).Msg("overdue digest done")
	}

	scheduler := service.NewSchedulerService(time.Local, log)
	var err error
	if cfg.Digest.At != "" {
		_, err = scheduler.ScheduleDaily(cfg.Digest.At, job)
	} else {
		_, err = scheduler.ScheduleInterval(cfg.Digest.Interval, job)
	}
	if err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}

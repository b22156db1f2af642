package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ia-usgs/field-service-manager-sub001/internal/app"
	"github.com/ia-usgs/field-service-manager-sub001/internal/audit"
	"github.com/ia-usgs/field-service-manager-sub001/internal/ledger"
	ledgerhttp "github.com/ia-usgs/field-service-manager-sub001/internal/ledger/http"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/cache"
	"github.com/ia-usgs/field-service-manager-sub001/internal/platform/db"
	"github.com/ia-usgs/field-service-manager-sub001/internal/shared"
	"github.com/ia-usgs/field-service-manager-sub001/internal/trash"
	"github.com/ia-usgs/field-service-manager-sub001/tasks"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	conn, err := db.Open(ctx, cfg.DataDir)
	if err != nil {
		logger.Error("open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn("database close", slog.Any("error", err))
		}
	}()
	if err := db.Migrate(ctx, conn); err != nil {
		logger.Error("migrate database", slog.Any("error", err))
		os.Exit(1)
	}

	// Local-first: without an external Redis we run an embedded one so the
	// cache and task broker need no extra processes.
	redisAddr := cfg.RedisAddr
	if redisAddr == "" {
		embedded, err := miniredis.Run()
		if err != nil {
			logger.Error("start embedded redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer embedded.Close()
		redisAddr = embedded.Addr()
		logger.Info("embedded redis started", slog.String("addr", redisAddr))
	}

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	clock := shared.RealClock()
	trashMgr := trash.NewManager(cfg.TrashWindow, clock, logger)
	auditSvc := audit.NewService(conn)
	summaryCache := cache.New(redisClient, cfg.CacheTTL)
	facade := ledger.New(conn, trashMgr, auditSvc, summaryCache, clock, logger)

	redisOpts := asynq.RedisClientOpt{Addr: redisAddr}
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	reminderTask, err := tasks.NewReminderScanTask(time.Now().UTC())
	if err != nil {
		logger.Error("build reminder scan task", slog.Any("error", err))
		os.Exit(1)
	}
	lowStockTask, err := tasks.NewLowStockScanTask(time.Now().UTC())
	if err != nil {
		logger.Error("build low stock scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := tasks.NewWorker(tasks.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Scans:     tasks.NewScans(facade, logger),
		Cron: []tasks.CronRegistration{
			{Spec: cfg.ReminderScanSpec, Task: reminderTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.LowStockScanSpec, Task: lowStockTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		LedgerHandler: ledgerhttp.NewHandler(logger, facade),
		TasksHandler:  tasks.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("runtime", slog.Any("error", err))
		os.Exit(1)
	}
}

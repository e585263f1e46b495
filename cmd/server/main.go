package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/Esraa999/TeamManagementTask/api/handler"
	"github.com/Esraa999/TeamManagementTask/internal/config"
	"github.com/Esraa999/TeamManagementTask/internal/hub"
	"github.com/Esraa999/TeamManagementTask/internal/infrastructure/eventlog"
	"github.com/Esraa999/TeamManagementTask/internal/infrastructure/monitor"
	pgInfra "github.com/Esraa999/TeamManagementTask/internal/infrastructure/postgres"
	redisInfra "github.com/Esraa999/TeamManagementTask/internal/infrastructure/redis"
	"github.com/Esraa999/TeamManagementTask/internal/middleware"
	"github.com/Esraa999/TeamManagementTask/internal/router"
	"github.com/Esraa999/TeamManagementTask/internal/services/lifecycle"
	"github.com/Esraa999/TeamManagementTask/pkg/httpcontext"
	"github.com/Esraa999/TeamManagementTask/pkg/logger"
	"github.com/Esraa999/TeamManagementTask/repository/postgres"
	redisRepo "github.com/Esraa999/TeamManagementTask/repository/redis"
	activityUC "github.com/Esraa999/TeamManagementTask/usecase/activity"
	authUC "github.com/Esraa999/TeamManagementTask/usecase/auth"
	taskUC "github.com/Esraa999/TeamManagementTask/usecase/task"
	userUC "github.com/Esraa999/TeamManagementTask/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	eventLog, err := eventlog.Open(cfg.EventLog.Path, cfg.EventLog.MaxEntries)
	if err != nil {
		zapLogger.Fatal("failed to open event log", zap.Error(err))
	}
	manager.Register("eventlog", func(ctx context.Context) error {
		return eventLog.Close()
	})

	eventHub := hub.New(cfg.Hub.SendBuffer, eventLog, zapLogger)

	mon := monitor.New(pool, redisClient, eventLog, eventHub, cfg.Hub.MonitorInterval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Auth.SessionTTL)

	authUseCase := authUC.New(userRepo, sessionRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, userRepo, activityRepo, eventHub, zapLogger)
	activityUseCase := activityUC.New(activityRepo, taskRepo, userRepo, zapLogger)
	userUseCase := userUC.New(userRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.Auth.SessionTTL),
		Task:     apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Activity: apiHandler.NewActivityHandler(activityUseCase, ctxAdapter, zapLogger),
		User:     apiHandler.NewUserHandler(userUseCase, ctxAdapter, zapLogger),
		Events:   apiHandler.NewEventsHandler(eventLog, ctxAdapter, zapLogger),
		WS:       apiHandler.NewWSHandler(eventHub, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-checkin/config"
	"event-checkin/internal/cache"
	"event-checkin/internal/clock"
	"event-checkin/internal/database"
	"event-checkin/internal/handler"
	"event-checkin/internal/metrics"
	"event-checkin/internal/middleware"
	"event-checkin/internal/queue"
	"event-checkin/internal/repository"
	"event-checkin/internal/service"
	"event-checkin/internal/worker"
	"event-checkin/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	defer logger.Sync()
	log := logger.WithComponent("main")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	checks := map[string]handler.PingFunc{"postgres": pool.Ping}

	var (
		activityQueue queue.ActivityQueue
		locker        cache.UploadLocker
	)
	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		defer rdb.Close()

		hostname, _ := os.Hostname()
		activityQueue, err = queue.NewRedisStreamActivityQueue(ctx, rdb, hostname, &queue.RedisStreamConfig{
			StreamKey:        cfg.Activity.StreamKey,
			GroupName:        cfg.Activity.Group,
			ClaimMinIdleTime: cfg.Activity.ClaimMinIdle,
			MaxRetryCount:    cfg.Activity.MaxRetry,
		})
		if err != nil {
			log.Fatal("Failed to initialize activity stream", zap.Error(err))
		}
		locker = cache.NewRedisUploadLocker(rdb, cfg.Upload.LockTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn("Redis disabled, using in-process activity queue and upload lock")
		activityQueue = queue.NewMemoryActivityQueue(cfg.Activity.BufferSize, cfg.Activity.MaxRetry)
		locker = cache.NewMemoryUploadLocker(cfg.Upload.LockTTL)
	}

	eventRepo := repository.NewEventRepository(pool)
	personRepo := repository.NewPersonRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)

	clk := clock.NewSystem()
	activityService := service.NewActivityService(activityRepo, eventRepo, activityQueue)
	eventService := service.NewEventService(pool, eventRepo, personRepo, locker, activityService, clk)
	checkinService := service.NewCheckinService(eventRepo, personRepo, activityService, clk)

	activityWorker := worker.NewActivityWorker(activityService, activityQueue)
	if err := activityWorker.Start(ctx); err != nil {
		log.Fatal("Failed to start activity worker", zap.Error(err))
	}

	auth := middleware.NewAuthenticator(cfg.Auth)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(),
		metrics.Middleware(),
		middleware.CORS(cfg.Server.CORSOrigins),
	)
	router.GET("/metrics", metrics.Handler())
	handler.NewHealthHandler(checks).RegisterRoutes(router)
	handler.NewEventHandler(eventService, activityService, cfg.Upload.MaxBytes).RegisterRoutes(router, auth)
	handler.NewCheckinHandler(checkinService).RegisterRoutes(router, auth)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", cfg.Server.Addr), zap.Bool("auth", auth.Enabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	select {
	case <-activityWorker.Done():
	case <-shutdownCtx.Done():
		log.Warn("Activity worker did not drain before timeout")
	}
}

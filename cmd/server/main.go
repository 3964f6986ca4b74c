package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timberbid/internal/config"
	cronrunner "timberbid/internal/cron"
	"timberbid/internal/db"
	"timberbid/internal/handler"
	"timberbid/internal/logger"
	"timberbid/internal/realtime"
	gormrepository "timberbid/internal/repository/gorm"
	"timberbid/internal/service"
)

func main() {
	cfgPath := os.Getenv("TB_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TB_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	hub := realtime.NewHub(logger, cfg.Realtime.SubscriberBuffer)

	auctionService := &service.AuctionService{Repo: store}
	bidService := &service.BidService{
		Repo:   store,
		Hub:    hub,
		Logger: logger,
	}
	lifecycleService := &service.LifecycleService{
		Repo:           store,
		Hub:            hub,
		Logger:         logger,
		EndingSoonLead: cfg.Cron.EndingSoonLead,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	auctionHandler := &handler.AuctionHandler{Service: auctionService, Logger: logger}
	auctionHandler.Register(engine)
	bidHandler := &handler.BidHandler{Service: bidService, Logger: logger}
	bidHandler.Register(engine)
	notificationHandler := &handler.NotificationHandler{Repo: store}
	notificationHandler.Register(engine)
	wsHandler := &handler.WSHandler{
		Hub:          hub,
		Logger:       logger,
		WriteTimeout: cfg.Realtime.WriteTimeout,
	}
	wsHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		_, err = cronRunner.Add(cfg.Cron.LifecycleSweep, func(ctx context.Context) {
			if err := lifecycleService.Sweep(ctx); err != nil {
				logger.Warn("lifecycle sweep failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register lifecycle sweep failed", zap.Error(err))
		}
		_, err = cronRunner.Add(cfg.Cron.EndingSoon, func(ctx context.Context) {
			if err := lifecycleService.NotifyEndingSoon(ctx); err != nil {
				logger.Warn("ending-soon notify failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register ending-soon failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,X-User-ID")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

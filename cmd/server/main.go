package main

import (
	"context"
	"errors"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-console/internal/config"
	"order-console/internal/controllers/http"
	"order-console/internal/export"
	"order-console/internal/infra"
	mmysql "order-console/internal/infra/mysql"
	"order-console/internal/infra/rabbitmq"
	"order-console/internal/infra/redis"
	"order-console/internal/logger"
	"order-console/internal/metrics"
	"order-console/internal/repository"
	mysqlrepo "order-console/internal/repository/mysql"
	"order-console/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	m := metrics.New()
	loc := cfg.Location()

	source := infra.NewOrderClient(cfg.OrderService.URL, cfg.OrderService.Timeout, zl)

	var publisher rabbitmq.PublisherInterface = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, zl)
		if err != nil {
			zl.Fatal("failed to init publisher", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	}

	var exports repository.ExportRepository
	if cfg.MySQL.Enabled() {
		db, err := mmysql.NewMySQL(cfg.MySQL)
		if err != nil {
			zl.Fatal("db: connect", zap.Error(err))
		}
		exports = mysqlrepo.NewExportRepository(db)
	}

	console := services.NewOrderConsole(source, publisher, exports,
		export.NewRenderer(loc, cfg.PDFFontPath), m, zl, loc)

	if addr := cfg.RedisAddr(); addr != "" {
		client := redis.NewClient(addr)
		defer client.Close()
		console.SetSnapshotCache(redis.NewSnapshotCache(client, cfg.SnapshotTTL))
	}

	handler := http.NewHandler(console, cfg.LoginURL, zl)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger(zl), m.Middleware())
	r.GET("/metrics", gin.WrapH(m.Handler()))

	handler.RegisterRoutes(r)

	srv := &nethttp.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("starting order console",
			zap.String("port", cfg.Port),
			zap.String("order_service", cfg.OrderService.URL),
			zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zl.Fatal("server run", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
	zl.Info("order console stopped")
}

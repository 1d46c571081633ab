package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"reseller-orders/internal/config"
	ordershttp "reseller-orders/internal/controllers/http"
	"reseller-orders/internal/infra/cache"
	"reseller-orders/internal/infra/metrics"
	mmysql "reseller-orders/internal/infra/mysql"
	"reseller-orders/internal/infra/rabbitmq"
	mysqlrepo "reseller-orders/internal/repository/mysql"
	"reseller-orders/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
	log.Println("order service stopped")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		return fmt.Errorf("db: connect: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.AutoMigrate {
		if err := mmysql.Migrate(db); err != nil {
			return fmt.Errorf("db: migrate: %w", err)
		}
	}
	if cfg.SeedStatuses {
		if err := mmysql.EnsureOrderStatuses(db, mmysql.DefaultOrderStatuses...); err != nil {
			return fmt.Errorf("db: seed statuses: %w", err)
		}
	}

	repo := mysqlrepo.NewOrderRepository(db)
	s := services.NewOrderService(repo)

	var profitCache cache.ProfitCacheInterface = cache.NopProfitCache{}
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			DB:           0,
			PoolSize:     50,
			MinIdleConns: 5,
		})
		defer redisClient.Close()
		profitCache = cache.NewProfitCache(redisClient, cfg.Redis.ProfitCacheTTL)
	} else {
		log.Println("REDIS_HOST not set, profit cache disabled")
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.RabbitMQ.Enabled() {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return fmt.Errorf("failed to init publisher: %w", err)
		}
		defer p.Close()
		publisher = p
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics(reg, "order_service")

	handler := ordershttp.NewHandler(s, profitCache, publisher)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), serverMetrics.Middleware())
	r.GET("/metrics", gin.WrapH(serverMetrics.Handler()))
	handler.RegisterRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting order service on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		handler.Wait()
		return err
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server run: %w", err)
	}
	return nil
}

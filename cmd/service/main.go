package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos-service/config"
	"pos-service/internal/cache"
	"pos-service/internal/hashing"
	"pos-service/internal/middleware"
	"pos-service/internal/migrate"
	"pos-service/internal/producer"
	"pos-service/internal/repository"
	"pos-service/internal/rpc"
	"pos-service/internal/service"
	"pos-service/internal/token"
	httptransport "pos-service/internal/transport/http"
	"pos-service/pkg/database"
	"pos-service/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	ctx := context.Background()
	hasher := hashing.NewBcrypt(hashing.DefaultCost)

	if err := migrate.MigratePosDB(ctx, db, log); err != nil {
		log.Fatal("Ошибка при выполнении миграции", zap.Error(err))
	}
	if err := migrate.Seed(ctx, db, log, migrate.SeedOptions{
		AdminPassword: cfg.Auth.AdminPassword,
		Hasher:        hasher,
	}); err != nil {
		log.Fatal("Ошибка при заполнении начальными данными", zap.Error(err))
	}

	repos := repository.New(db)

	tokens, err := token.NewHSProvider(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal("invalid jwt configuration", zap.Error(err))
	}

	cacheTTL := time.Duration(cfg.Redis.TTLSeconds) * time.Second
	var permCache service.PermissionCache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("failed to create redis client", zap.Error(err))
		}
		defer redisClient.Close()
		permCache = cache.NewRedisPermissionCache(redisClient, cacheTTL)
		log.Info("Redis cache enabled")
	} else {
		local, err := cache.NewLocalPermissionCache(cacheTTL)
		if err != nil {
			log.Fatal("failed to create local cache", zap.Error(err))
		}
		defer local.Close()
		permCache = local
		log.Info("Redis cache disabled, using in-process cache")
	}

	var events service.EventBus = producer.NewLogEventBus(log)
	if len(cfg.Kafka.Brokers) > 0 {
		p := producer.NewOrderProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer p.Close()
		events = p
		log.Info("Kafka order events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	permSvc := service.NewPermissionService(repos, permCache, log)
	authSvc := service.NewAuthService(repos, hasher, tokens, permSvc, service.AuthOptions{
		AccessTTL:        cfg.JWT.AccessExp,
		RefreshTTL:       cfg.JWT.RefreshExp,
		UnifyLoginErrors: cfg.Auth.UnifyLoginErrors,
	}, log)

	registry, err := rpc.NewCatalog(rpc.Services{
		Auth:        authSvc,
		Categories:  service.NewCategoryService(repos, log),
		Products:    service.NewProductService(repos, log),
		Clients:     service.NewClientService(repos, log),
		Orders:      service.NewOrderService(repos, events, log),
		Spents:      service.NewSpentService(repos, log),
		Users:       service.NewUserService(repos, hasher, permSvc, log),
		Permissions: permSvc,
		Reports:     service.NewReportService(repos, log),
	})
	if err != nil {
		log.Fatal("invalid procedure catalog", zap.Error(err))
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	authz := middleware.NewAuthorizer(authSvc, permSvc, log)
	dispatcher := rpc.NewDispatcher(registry, authz, rpc.NewMetrics(promReg), log)

	router := httptransport.Router(dispatcher, httptransport.RouterOptions{
		AllowOrigins: cfg.CORSOrigins,
		Gatherer:     promReg,
		Debug:        cfg.IsDev(),
	}, log)

	srv := &http.Server{
		Addr:              cfg.RPCAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting RPC server", zap.String("addr", cfg.RPCAddr), zap.Int("procedures", len(registry.Names())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("RPC server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down RPC server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("RPC server shutdown failed", zap.Error(err))
	}
	log.Info("RPC server stopped gracefully")
}

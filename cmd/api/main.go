package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/m0rozov/phishsight/internal/analytics"
	"github.com/m0rozov/phishsight/internal/console/handler"
	"github.com/m0rozov/phishsight/internal/console/server"
	"github.com/m0rozov/phishsight/internal/console/service"
	"github.com/m0rozov/phishsight/internal/detector"
	"github.com/m0rozov/phishsight/internal/feeds"
	"github.com/m0rozov/phishsight/internal/infra"
	"github.com/m0rozov/phishsight/internal/infra/auth"
	"github.com/m0rozov/phishsight/internal/metrics"
	"github.com/m0rozov/phishsight/internal/repository/postgres"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 2. Инфраструктура и ресурсы
	if cfg.Database.URL == "" {
		logger.Fatal("database.url (or DATABASE_URL env) is required")
	}
	store := postgres.NewStore(cfg.Database.URL)
	defer store.Close()

	// Проверяем соединение с таймаутом
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.Ping(pingCtx); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}
	if err := store.EnsureSchema(pingCtx); err != nil {
		logger.Fatal("schema migration failed", zap.Error(err))
	}
	cancelPing()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Контекст жизненного цикла фоновых горутин: cancel() останавливает
	// слушателей при завершении процесса
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Каталоги детектора: встроенные значения, локальный файл,
	// периодический удаленный фид
	safelist := feeds.NewSafelist()
	if cfg.Feeds.SafelistPath != "" {
		if err := safelist.LoadFile(cfg.Feeds.SafelistPath); err != nil {
			logger.Warn("failed to load local safelist, using defaults", zap.Error(err))
		}
	}
	if cfg.Feeds.RemoteURL != "" {
		refresher := feeds.NewRefresher(cfg.Feeds.RemoteURL, cfg.Feeds.RefreshInterval, safelist, logger)
		go refresher.Run(appCtx)
	}

	engine := detector.NewEngine(safelist, logger)

	// 4. Метрики
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	// 5. Ключи RS256: закрытый подписывает, открытый проверяет
	privateKey, err := auth.ParseRSAPrivateKey(cfg.Auth.PrivateKey)
	if err != nil {
		logger.Fatal("failed to parse private key", zap.Error(err))
	}
	publicKey, err := auth.ParseRSAPublicKey(cfg.Auth.PublicKey)
	if err != nil {
		logger.Fatal("failed to parse public key", zap.Error(err))
	}
	validator := auth.NewBaseValidator(publicKey)

	// 6. Сборка слоев (Dependency Injection)
	location, err := time.LoadLocation(cfg.Analytics.Timezone)
	if err != nil {
		logger.Fatal("invalid analytics.timezone", zap.String("tz", cfg.Analytics.Timezone), zap.Error(err))
	}
	aggCfg := analytics.Config{
		WindowDays:  cfg.Analytics.WindowDays,
		BucketWidth: cfg.Analytics.BucketWidth,
		Location:    location,
	}

	authService := service.NewAuthService(store, privateKey, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost, logger)
	detectionService := service.NewDetectionService(engine, store, rdb, m, logger)
	analyticsService := service.NewAnalyticsService(
		store, rdb, aggCfg, cfg.Redis.CacheTTL, cfg.Analytics.SampleFallback, m, logger)
	feedbackService := service.NewFeedbackService(store, logger)
	reportService := service.NewReportService(analyticsService, logger)

	// Живучая подписка на сигналы новых детекций для сброса кэша
	go analyticsService.StartInvalidationListener(appCtx)

	consoleServer := server.NewConsoleServer(
		cfg, logger, validator, m, reg,
		handler.NewAuthHandler(authService),
		handler.NewDetectHandler(detectionService),
		handler.NewHistoryHandler(detectionService),
		handler.NewAnalyticsHandler(analyticsService),
		handler.NewFeedbackHandler(feedbackService),
		handler.NewReportHandler(reportService),
	)

	// 7. HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      consoleServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("console API started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-stop // Ждем сигнал
	logger.Info("console API stopping...")
	cancel()

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}
	logger.Info("console API exited properly")
}

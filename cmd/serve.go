package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/incident_reporter/internal/config"
	"github.com/shenikar/incident_reporter/internal/geocode"
	v1 "github.com/shenikar/incident_reporter/internal/handler/http/v1"
	"github.com/shenikar/incident_reporter/internal/handler/web"
	"github.com/shenikar/incident_reporter/internal/repository"
	"github.com/shenikar/incident_reporter/internal/service"
	"github.com/shenikar/incident_reporter/internal/supabase"
	"github.com/shenikar/incident_reporter/internal/webhook"
	"github.com/shenikar/incident_reporter/pkg/postgres"
	redisclient "github.com/shenikar/incident_reporter/pkg/redis"

	_ "github.com/shenikar/incident_reporter/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Incident Reporter API
// @version 1.0
// @description JSON API of the incident reporting client: authentication, incident CRUD, dashboard and map views.
// @host localhost:3000
// @BasePath /api/v1
func serve(cfg *config.Config, log *logrus.Logger) error {
	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := gin.Default()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	host := web.NewHost(cfg, log)
	if !cfg.SupabaseConfigured() {
		log.Warn("VITE_SUPABASE_URL and VITE_SUPABASE_ANON_KEY are not set, serving configuration page only")
		host.RegisterUnconfigured(router)
		return listen(cfg, log, router)
	}

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	supabaseClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseTimeout)

	// Инициализация репозиториев
	incidentRepo, closeRepo, err := newIncidentRepository(ctx, cfg, log, supabaseClient)
	if err != nil {
		return err
	}
	defer closeRepo()
	sessionStore := repository.NewRedisSessionStore(redisClient, cfg.SessionTTL)

	geocoder := geocode.NewCachedGeocoder(
		geocode.NewNominatimClient(cfg.GeocodeURL, cfg.GeocodeTimeout),
		redisClient, cfg.GeocodeCacheTTL, log,
	)

	publisher := newEventPublisher(ctx, cfg, log, redisClient)

	// Инициализация сервисов
	registry := service.NewRegistry(supabaseClient, sessionStore, incidentRepo, geocoder, publisher, log,
		service.IncidentStoreOptions{GeocodeFailureBlocks: cfg.GeocodeFailureBlocks})
	service.NewSessionWatcher(registry, supabaseClient, log, cfg.SessionWatchInterval, cfg.SessionTTL).Start(ctx)

	// Инициализация хэндлеров
	handler := v1.NewHandler(registry, log, cfg)
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	host.Register(router)

	return listen(cfg, log, router)
}

// newIncidentRepository выбирает хранилище инцидентов по STORE_BACKEND
func newIncidentRepository(ctx context.Context, cfg *config.Config, log *logrus.Logger, client *supabase.Client) (service.IncidentRepository, func(), error) {
	if cfg.StoreBackend != config.BackendPostgres {
		return repository.NewRESTIncidentRepository(client), func() {}, nil
	}

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Info("Successfully connected to PostgreSQL")
	return repository.NewPostgresIncidentRepository(dbpool), dbpool.Close, nil
}

// newEventPublisher включает очередь вебхуков, только если задан WEBHOOK_URL
func newEventPublisher(ctx context.Context, cfg *config.Config, log *logrus.Logger, redisClient *redis.Client) service.EventPublisher {
	if cfg.WebhookURL == "" {
		log.Info("WEBHOOK_URL is not set, incident events are not published")
		return nil
	}
	webhook.NewEventWorker(redisClient, log, cfg).Start(ctx)
	return webhook.NewRedisEventPublisher(redisClient)
}

func listen(cfg *config.Config, log *logrus.Logger, router *gin.Engine) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Запуск сервера в горутине
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("error starting HTTP server: %w", err)
	case <-quit:
	}
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server gracefully stopped")
	return nil
}

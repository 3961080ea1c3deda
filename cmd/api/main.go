package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"yt-insight/cmd/api/auth"
	"yt-insight/cmd/api/httpclient"
	"yt-insight/cmd/api/router"
	"yt-insight/cmd/api/services"
	"yt-insight/cmd/internal/logger"
	"yt-insight/config"
	"yt-insight/db"
	"yt-insight/dispatcher"
	"yt-insight/eventbus"
	"yt-insight/metrics"
	"yt-insight/persistence"
	"yt-insight/pipeline"
	"yt-insight/profilefeed"
	"yt-insight/quota"
	"yt-insight/repositories"
	"yt-insight/runguard"
	"yt-insight/summarizer"
	"yt-insight/ytapi"
)

// @title           yt-insight API
// @version         1.0
// @description     YouTube 영상 댓글을 분석해 크리에이터용 리포트를 만드는 API
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx); err != nil {
		logger.Log.Errorf("failed to initialize MongoDB: %v", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Disconnect(shutdownCtx)
	}()

	database := db.Database()
	profileRepo := repositories.NewProfileRepository(database)
	hub := profilefeed.NewHub()
	go profilefeed.Watch(ctx, profileRepo, hub)
	gateway := persistence.NewGateway(profileRepo, repositories.NewReportRepository(database), hub, cfg.Credits.SignupGrant)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.RedisPassword,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WarnWithFields("redis unavailable, run guard and counters may fail", logger.Fields{"addr": cfg.Redis.Addr, "error": err.Error()})
	}
	counters := metrics.NewCounters(rdb)

	videos, err := ytapi.NewClient(ctx, ytapi.Options{
		APIKey:     cfg.YouTubeAPIKey,
		HTTPClient: httpclient.New(httpclient.Config{Timeout: time.Duration(cfg.YouTube.TimeoutSeconds) * time.Second}),
		PageSize:   cfg.YouTube.PageSize,
	})
	if err != nil {
		logger.Log.Errorf("failed to create YouTube client: %v", err)
		os.Exit(1)
	}

	limiter := quota.NewGenerationQuotaLimiterFromConfig(cfg)
	counters.Gauge(metrics.GenerationQuotaRemaining, "Model calls left today on this instance, -1 when unlimited.", func() int64 {
		return int64(limiter.Remaining())
	})
	generator, err := summarizer.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, limiter)
	if err != nil {
		logger.Log.Errorf("failed to create report generator: %v", err)
		os.Exit(1)
	}

	deps := pipeline.Deps{
		Profiles:  gateway,
		Videos:    videos,
		Generator: generator,
		Reports:   gateway,
		Guard:     runguard.NewGuard(rdb, cfg.Analysis.RunLockTTL()),
		Counters:  counters,
		AILogs:    repositories.NewAILogRepository(database),
	}

	// Kafka 는 선택 사항이다. 브로커가 없으면 이벤트 발행 없이 동작한다.
	if brokers, ok := eventbus.LookupBrokers(); ok {
		if err := eventbus.EnsureTopics(brokers, eventbus.TopicAnalysisEvents, eventbus.TopicLayout{}); err != nil {
			logger.WarnWithFields("failed to ensure eventbus topics", logger.Fields{"error": err.Error()})
		}
		bus, err := eventbus.NewKafkaEventBus(brokers)
		if err != nil {
			logger.Log.Errorf("failed to create event bus: %v", err)
			os.Exit(1)
		}
		defer bus.Close()
		deps.Events = dispatcher.NewEventDispatcher(bus, "api")
	}

	analyzer := pipeline.New(deps, pipeline.Options{
		MaxComments:     cfg.YouTube.MaxComments,
		NavigationDelay: cfg.Analysis.NavigationDelay(),
	})

	jwtManager, err := auth.NewJWTManagerFromEnv()
	if err != nil {
		logger.Log.Errorf("failed to configure JWT: %v", err)
		os.Exit(1)
	}

	r := router.New(router.Deps{
		Auth:     services.NewAuthService(repositories.NewAccountRepository(database), gateway, jwtManager),
		Profiles: services.NewProfileService(gateway),
		Analyses: services.NewAnalysisService(analyzer),
		Reports:  services.NewReportService(gateway),
		Metrics:  counters.Handler(),
		Health: func(ctx context.Context) error {
			if err := db.Client().Ping(ctx, nil); err != nil {
				return err
			}
			return rdb.Ping(ctx).Err()
		},
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Location", "X-Request-Id", "X-Span-Id"},
		AllowCredentials: true,
	}).Handler(r)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoWithFields("api server listening", logger.Fields{"addr": cfg.Server.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("api server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.InfoWithFields("shutting down api server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("api server shutdown error: %v", err)
	}
	// 진행 중인 분석이 저장까지 끝나도록 기다린다.
	analyzer.Wait()
}

// README: Entry point; loads config, wires services, starts the HTTP server and drains background writes on shutdown.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travelai/internal/ai"
	"travelai/internal/config"
	httptransport "travelai/internal/http"
	"travelai/internal/http/middleware"
	"travelai/internal/infra"
	"travelai/internal/modules/itinerary"
	"travelai/internal/modules/trips"
	"travelai/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := ai.New(ctx, cfg.AI.Provider, ai.Keys{Gemini: cfg.AI.GeminiKey, OpenAI: cfg.AI.OpenAIKey})
	if err != nil {
		logger.Fatal("ai provider init", zap.Error(err))
	}
	defer provider.Close()
	if cfg.AI.GeminiKey == "" && cfg.AI.OpenAIKey == "" {
		logger.Warn("no completion API key configured; generation requests will fail")
	}

	itinerarySvc := itinerary.NewService(provider, logger.Named("itinerary"))

	var persister service.Persister
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			logger.Fatal("db init", zap.Error(err))
		}
		defer dbPool.Close()

		if cfg.DB.Migrate {
			applied, err := infra.Migrate(ctx, dbPool)
			if err != nil {
				logger.Fatal("db migrate", zap.Error(err))
			}
			logger.Info("migrations applied", zap.Int("count", applied))
		}
		persister = trips.NewService(trips.NewStore(dbPool))
	} else {
		logger.Info("TRAVELAI_DB_DSN not set; trips will not be saved")
	}

	var limiter middleware.Limiter
	if n := cfg.Redis.RatePerMinute; n > 0 {
		if cfg.Redis.Addr != "" {
			redisClient := infra.NewRedis(cfg.Redis.Addr)
			defer redisClient.Close()
			limiter = infra.NewRedisLimiter(redisClient, n, time.Minute)
		} else {
			limiter = middleware.NewLocalLimiter(n)
		}
	}

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Fatal("firebase init", zap.Error(err))
		}
	} else {
		logger.Info("TRAVELAI_FIREBASE_PROJECT_ID not set; all callers are anonymous")
	}

	planner := service.NewTripPlanner(itinerarySvc, persister, logger.Named("planner"), cfg.DB.PersistTimeout)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httptransport.NewServer(httptransport.ServerDeps{
		Planner:         planner,
		Verifier:        verifier,
		Limiter:         limiter,
		Logger:          logger.Named("http"),
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		GenerateTimeout: cfg.HTTP.GenerateTimeout,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr), zap.String("ai_provider", cfg.AI.Provider))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	planner.Wait()
}

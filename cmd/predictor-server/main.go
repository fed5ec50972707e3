package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"listing-predictor/internal/common/config"
	"listing-predictor/internal/common/database"
	apperrors "listing-predictor/internal/common/errors"
	commonhttp "listing-predictor/internal/common/http"
	"listing-predictor/internal/common/logger"
	"listing-predictor/internal/common/metrics"
	"listing-predictor/internal/common/observability"
	"listing-predictor/internal/web"
	"listing-predictor/pkg/artifact"

	ps "listing-predictor/internal/listing/predict-sale"
	rp "listing-predictor/internal/listing/record-prediction"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting listing predictor...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.Tracing.ServiceName, cfg.Tracing.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()
	fetcher := commonhttp.NewClient(config.GetDuration(cfg.Model.FetchTimeout), cfg.App.Name+"/"+cfg.App.Version)

	var model *artifact.LinearModel
	err = retryWithBackoff(func() error {
		var err error
		model, err = loadModel(ctx, cfg.Model.ModelPath, fetcher)
		return err
	}, 3, time.Second, zapLog, "Model artifact load")
	if err != nil {
		zapLog.Fatal("model load failed", zap.Error(err))
	}
	metrics.ArtifactsLoaded.WithLabelValues(artifact.KindModel).Set(1)
	zapLog.Info("Model loaded",
		zap.String("name", model.Name),
		zap.String("version", model.Version),
		zap.Int("dimension", model.Dimension()),
	)

	var table *artifact.CoefficientTable
	err = retryWithBackoff(func() error {
		var err error
		table, err = loadCoefficients(ctx, cfg.Model.CoefficientsPath, fetcher)
		return err
	}, 3, time.Second, zapLog, "Coefficient table load")
	if err != nil {
		zapLog.Fatal("coefficient table load failed", zap.Error(err))
	}
	metrics.ArtifactsLoaded.WithLabelValues(artifact.KindCoefficients).Set(1)

	var sinks []rp.Sink

	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		pgSink := rp.NewPostgresSink(pg.GetDB(), cfg.History.Table)
		if err := pgSink.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("history table setup failed", zap.Error(err))
		}
		sinks = append(sinks, pgSink)
		zapLog.Info("PostgreSQL connected successfully")
	}

	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return esClient.Ping(pingCtx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		sinks = append(sinks, rp.NewElasticsearchSink(esClient.Client, cfg.History.Index))
		zapLog.Info("Elasticsearch connected successfully")
	}

	var redisClient *database.RedisClient
	if cfg.Database.Redis.Enabled {
		err = retryWithBackoff(func() error {
			redisClient = database.NewRedis(cfg.Database.Redis)
			if err := redisClient.Ping(ctx); err != nil {
				redisClient.Close()
				return err
			}
			return nil
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	}

	var recorder ps.Recorder
	if history := rp.NewHandler(rp.LoadConfig(), log, sinks...); history.Enabled() {
		recorder = history
	}

	predictCfg := ps.LoadConfig()
	predictCfg.Threshold = cfg.Model.Threshold
	predictCfg.CacheTTL = config.GetDuration(cfg.Cache.TTL)
	predictCfg.CacheKeyPrefix = cfg.Cache.KeyPrefix
	predictCfg.ModelName = model.Name
	predictCfg.ModelVersion = model.Version

	var rdb *redis.Client
	if redisClient != nil {
		rdb = redisClient.GetClient()
	}
	predictor, err := ps.NewHandler(predictCfg, model, rdb, recorder, obs, log)
	if err != nil {
		zapLog.Fatal("predictor setup failed", zap.Error(err))
	}

	var ready atomic.Bool
	server, err := web.NewServer(web.Options{
		Predictor:   predictor,
		Table:       table,
		CORSOrigins: cfg.Server.CORSOrigins,
		Ready:       ready.Load,
		Logger:      log,
	})
	if err != nil {
		zapLog.Fatal("web server setup failed", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()
	ready.Store(true)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Listing predictor stopped")
}

func loadModel(ctx context.Context, src string, client artifact.Doer) (*artifact.LinearModel, error) {
	model, err := artifact.LoadModel(ctx, src, client)
	var schemaErr *artifact.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		return nil, apperrors.NewArtifactSchemaInvalidError(schemaErr.Kind, schemaErr.Violations)
	case err != nil:
		return nil, apperrors.NewModelLoadFailedError(src, err)
	}
	return model, nil
}

func loadCoefficients(ctx context.Context, src string, client artifact.Doer) (*artifact.CoefficientTable, error) {
	table, err := artifact.LoadCoefficientTable(ctx, src, client)
	var schemaErr *artifact.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		return nil, apperrors.NewArtifactSchemaInvalidError(schemaErr.Kind, schemaErr.Violations)
	case err != nil:
		return nil, apperrors.NewCoefficientsLoadFailedError(src, err)
	}
	return table, nil
}

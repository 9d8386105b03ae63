// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"carecase-workers/internal/api"
	commonaws "carecase-workers/internal/common/aws"
	"carecase-workers/internal/common/camunda"
	"carecase-workers/internal/common/config"
	"carecase-workers/internal/common/database"
	commonhttp "carecase-workers/internal/common/http"
	"carecase-workers/internal/common/logger"
	"carecase-workers/internal/common/observability"
	"carecase-workers/internal/common/validation"
	"carecase-workers/internal/records"
	"carecase-workers/internal/roster"
	"carecase-workers/pkg/registry"

	rap "carecase-workers/internal/workers/application/resolve-application-progress"
	sn "carecase-workers/internal/workers/application/send-notification"
	uas "carecase-workers/internal/workers/application/update-application-status"
	iap "carecase-workers/internal/workers/data-access/index-application-progress"
	qap "carecase-workers/internal/workers/data-access/query-application-progress"
)

// retryWithBackoff attempts to execute a function with exponential backoff
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
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("recordSource", cfg.Records.Source),
	)

	obs := observability.New(cfg.App.Name, observability.WithJaeger(cfg.Tracing.JaegerEndpoint, cfg.Tracing.SampleRatio))
	defer obs.Shutdown()

	ctx := context.Background()
	checks := map[string]api.Check{}

	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		zapLog.Fatal("input schema compile failed", zap.Error(err))
	}

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.Plaintext,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	checks["zeebe"] = zeebe.HealthCheck
	zapLog.Info("Zeebe client connected successfully")

	// --- Record source ---
	var store records.Store
	switch cfg.Records.Source {
	case config.SourceBackend:
		client := commonhttp.NewClient(cfg.Records.BackendURL, cfg.Records.BackendToken, config.GetDuration(cfg.Records.BackendTimeout))
		store = records.NewBackendStore(client)
		zapLog.Info("Reading application records from backend API", zap.String("url", cfg.Records.BackendURL))

	default:
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

		if cfg.Database.Postgres.AutoMigrate {
			if err := pg.Migrate(ctx); err != nil {
				zapLog.Fatal("postgres migrations failed", zap.Error(err))
			}
			zapLog.Info("PostgreSQL migrations applied")
		}
		store = records.NewPostgresStore(pg.DB)
		checks["postgres"] = pg.Ping
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	checks["redis"] = redis.Ping
	zapLog.Info("Redis connected successfully",
		zap.Int("poolSize", cfg.Database.Redis.PoolSize),
		zap.Uint32("totalConns", redis.PoolStats().TotalConns),
	)

	if cfg.Records.CacheTTL > 0 {
		store = records.NewCachedStore(store, redis.Client, time.Duration(cfg.Records.CacheTTL)*time.Second, log)
		zapLog.Info("Record cache enabled", zap.Int("ttlSeconds", cfg.Records.CacheTTL))
	}

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	var searcher *roster.Searcher
	if len(cfg.Database.Elasticsearch.Addresses) > 0 && cfg.Database.Elasticsearch.Addresses[0] != "" {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		if err := esClient.EnsureIndex(ctx, cfg.Database.Elasticsearch.ProgressIndex, database.ProgressIndexMapping); err != nil {
			zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
		}
		checks["elasticsearch"] = func(context.Context) error { return esClient.Ping() }
		searcher = roster.NewSearcher(esClient.Client, cfg.Database.Elasticsearch.ProgressIndex)
		zapLog.Info("Elasticsearch connected successfully")
	} else {
		zapLog.Warn("Elasticsearch not configured, progress indexing and rosters disabled")
	}

	// --- Init AWS messaging ---
	var email sn.EmailSender
	var sms sn.SMSSender
	awsCfg := cfg.Integrations.AWS
	if awsCfg.SES.Enabled || awsCfg.SNS.Enabled {
		sdkCfg, err := commonaws.LoadConfig(ctx, awsCfg.Region)
		if err != nil {
			zapLog.Fatal("aws config failed", zap.Error(err))
		}
		if awsCfg.SES.Enabled {
			email = commonaws.NewSESClient(sdkCfg, awsCfg.SES.FromEmail)
		}
		if awsCfg.SNS.Enabled {
			sms = commonaws.NewSNSClient(sdkCfg, awsCfg.SNS.SenderID)
		}
		zapLog.Info("AWS messaging initialized",
			zap.Bool("ses", awsCfg.SES.Enabled),
			zap.Bool("sns", awsCfg.SNS.Enabled),
		)
	}

	// --- Register Workers ---
	var jobWorkers []worker.JobWorker
	start := func(taskType string, handler camunda.HandlerFunc) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		if jw := camunda.StartWorker(zeebe.GetClient(), taskType, wcfg, handler, obs, zapLog); jw != nil {
			jobWorkers = append(jobWorkers, jw)
		}
	}
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	{
		c := rap.LoadConfig()
		c.Timeout = timeout(rap.TaskType)
		start(rap.TaskType, rap.NewHandler(c, store, validator, obs, log).Handle)
	}
	{
		c := uas.LoadConfig()
		c.Timeout = timeout(uas.TaskType)
		start(uas.TaskType, uas.NewHandler(c, store, validator, obs, log).Handle)
	}
	{
		c := sn.LoadConfig()
		c.Timeout = timeout(sn.TaskType)
		c.EmailEnabled = awsCfg.SES.Enabled
		c.SMSEnabled = awsCfg.SNS.Enabled
		start(sn.TaskType, sn.NewHandler(c, store, email, sms, validator, obs, log).Handle)
	}
	if esClient != nil {
		c := iap.LoadConfig(cfg.Database.Elasticsearch.ProgressIndex)
		c.Timeout = timeout(iap.TaskType)
		start(iap.TaskType, iap.NewHandler(c, store, esClient.Client, validator, obs, log).Handle)
	}
	if searcher != nil {
		c := qap.LoadConfig()
		c.Timeout = timeout(qap.TaskType)
		start(qap.TaskType, qap.NewHandler(c, searcher, validator, obs, log).Handle)
	}
	zapLog.Info("Workers registered", zap.Int("count", len(jobWorkers)))

	// --- Progress API, health & metrics ---
	deps := api.Deps{Store: store, Logger: log, Checks: checks}
	if searcher != nil {
		deps.Roster = searcher
	}
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}

	for _, jw := range jobWorkers {
		jw.Close()
	}
	for _, jw := range jobWorkers {
		jw.AwaitClose()
	}

	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

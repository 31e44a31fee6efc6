// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"careers-scheduling/internal/calendar"
	"careers-scheduling/internal/calendar/google"
	"careers-scheduling/internal/calendar/ics"
	"careers-scheduling/internal/calendar/microsoft"
	"careers-scheduling/internal/common/aws"
	"careers-scheduling/internal/common/camunda"
	"careers-scheduling/internal/common/config"
	"careers-scheduling/internal/common/database"
	commonhttp "careers-scheduling/internal/common/http"
	"careers-scheduling/internal/common/logger"
	"careers-scheduling/internal/common/observability"
	"careers-scheduling/internal/credentials"
	"careers-scheduling/internal/directory"
	"careers-scheduling/internal/feedback"
	"careers-scheduling/internal/notify"
	"careers-scheduling/internal/scheduling"
	"careers-scheduling/internal/search"
	"careers-scheduling/internal/store"

	ci "careers-scheduling/internal/workers/interview/cancel-interview"
	ri "careers-scheduling/internal/workers/interview/reschedule-interview"
	si "careers-scheduling/internal/workers/interview/schedule-interview"

	sfr "careers-scheduling/internal/workers/feedback/send-feedback-reminder"
	sf "careers-scheduling/internal/workers/feedback/submit-feedback"
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
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.Connect(cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
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
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	// The search mirror is best-effort; everything else runs without it.
	var esSearchClient *elasticsearch.Client
	err = retryWithBackoff(func() error {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		if err := esClient.Ping(); err != nil {
			return err
		}
		esSearchClient = esClient.Client
		return nil
	}, 5, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Warn("elasticsearch unavailable, interview search mirror disabled", zap.Error(err))
	} else {
		zapLog.Info("Elasticsearch connected successfully")
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
	zapLog.Info("Redis connected successfully")

	// --- Calendar integration ---
	credStore := credentials.NewStore(pg.DB, log)
	providerTimeout := config.GetDuration(cfg.Calendar.ProviderTimeout)

	googleAdapter := google.NewAdapter(credStore, google.FallbackConfig{
		ClientID:     cfg.Calendar.Google.ClientID,
		ClientSecret: cfg.Calendar.Google.ClientSecret,
		RefreshToken: cfg.Calendar.Google.RefreshToken,
		CalendarID:   cfg.Calendar.Google.CalendarID,
	}, log)

	graphClient := microsoft.NewGraphClient(commonhttp.NewClient(providerTimeout))
	microsoftAdapter := microsoft.NewAdapter(credStore, microsoft.FallbackConfig{
		TenantID:     cfg.Calendar.Microsoft.TenantID,
		ClientID:     cfg.Calendar.Microsoft.ClientID,
		ClientSecret: cfg.Calendar.Microsoft.ClientSecret,
		RefreshToken: cfg.Calendar.Microsoft.RefreshToken,
		Organizer:    cfg.Calendar.Microsoft.Organizer,
	}, graphClient, log)

	formatter := ics.NewFormatter(cfg.Calendar.ICS.ProdID)
	inviteRouter := calendar.NewRouter(
		[]calendar.Provider{googleAdapter, microsoftAdapter},
		formatter, providerTimeout, log,
	)

	// --- Domain services ---
	appStore := store.NewApplicationStore(pg.DB, log)
	userDirectory := directory.New(pg.DB, redis.Client,
		time.Duration(cfg.Scheduling.DirectoryCacheTTL)*time.Second, log)
	indexer := search.NewIndexer(esSearchClient, log)

	manager := scheduling.NewManager(appStore, userDirectory, inviteRouter, indexer, cfg.Scheduling, log)

	var emailSender notify.EmailSender
	var smsSender notify.SMSSender
	if cfg.Notifications.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("SES client failed", zap.Error(err))
		}
		emailSender = sesClient
	}
	if cfg.Notifications.SMS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("SNS client failed", zap.Error(err))
		}
		smsSender = snsClient
	}
	notifier := notify.NewNotifier(emailSender, smsSender, cfg.Notifications, log)

	collector := feedback.NewCollector(appStore, userDirectory, notifier, cfg.Scheduling.SaveRetries, log)

	zapLog.Info("All domain services initialized")

	// --- Register Workers ---
	pool := camunda.NewPool(zeebeClient, zapLog)

	// --- 1. Interview Lifecycle Workers (3) ---
	{
		wcfg := config.GetWorkerConfig(cfg, si.TaskType)
		handler := si.NewHandler(
			&si.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			manager, log,
		)
		pool.Start(si.TaskType, wcfg, handler.Handle)
	}

	{
		wcfg := config.GetWorkerConfig(cfg, ci.TaskType)
		handler := ci.NewHandler(
			&ci.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			manager, log,
		)
		pool.Start(ci.TaskType, wcfg, handler.Handle)
	}

	{
		wcfg := config.GetWorkerConfig(cfg, ri.TaskType)
		handler := ri.NewHandler(
			&ri.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			manager, log,
		)
		pool.Start(ri.TaskType, wcfg, handler.Handle)
	}

	// --- 2. Feedback Workers (2) ---
	{
		wcfg := config.GetWorkerConfig(cfg, sf.TaskType)
		handler := sf.NewHandler(
			&sf.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			collector, log,
		)
		pool.Start(sf.TaskType, wcfg, handler.Handle)
	}

	{
		wcfg := config.GetWorkerConfig(cfg, sfr.TaskType)
		handler := sfr.NewHandler(
			&sfr.Config{Timeout: config.GetDuration(wcfg.Timeout)},
			collector, log,
		)
		pool.Start(sfr.TaskType, wcfg, handler.Handle)
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := zeebeClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		if cfg.Metrics.Enabled {
			http.Handle("/metrics", promhttp.Handler())
		}
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	pool.Close()

	zapLog.Info("Worker manager stopped gracefully")
}

package di

import (
	"fmt"
	"net"
	"strconv"
	"time"

	domrepo "FxDesk/internal/domain/repository"
	domsvc "FxDesk/internal/domain/service"
	"FxDesk/internal/handler/api"
	internalrepo "FxDesk/internal/repository"
	"FxDesk/internal/services/advisor"
	"FxDesk/internal/services/feeds"
	"FxDesk/internal/services/translate"
	"FxDesk/internal/usecase"
	"FxDesk/pkg/cache"
	"FxDesk/pkg/config"
	pkgkafka "FxDesk/pkg/kafka"
	applogger "FxDesk/pkg/logger"
	"FxDesk/pkg/metrics"
	"FxDesk/pkg/queue"
	"FxDesk/pkg/server"
)

// ProvideLogger creates the application logger with the retained log buffer
// the dashboard log panel reads from.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}

	l, err := applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	l.AddCollector(&applogger.CollectionConfig{BufferSize: cfg.Logs.BufferSize})
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideRedisCache creates the Redis cache when Redis is configured.
// A nil client means the deployment runs without Redis.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr %q: %w", cfg.Redis.Addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port %q: %w", portStr, err)
	}

	return cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
}

// ProvideCache returns the cache the services share: layered over Redis
// when available, in-process otherwise.
func ProvideCache(rc *cache.RedisCache) cache.Service {
	if rc != nil {
		return cache.NewLayeredCache(rc)
	}
	return cache.NewMemoryCache()
}

// ProvideSettingsStore creates the settings file store.
func ProvideSettingsStore(cfg *config.Config) domrepo.SettingsStore {
	return internalrepo.NewFileSettingsStore(cfg.AI.SettingsPath)
}

// ProvideGate creates the spend gate seeded from the persisted ledger.
func ProvideGate(store domrepo.SettingsStore, log *applogger.Logger) (*advisor.Gate, error) {
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return advisor.NewGate(advisor.SpendLedger{
		DailyTotal: settings.APICosts,
		DailyLimit: settings.DailyLimit,
		ResetDate:  settings.LastResetDate,
	},
		advisor.WithPersist(usecase.PersistLedger(store)),
		advisor.WithGateLogger(log),
	), nil
}

// ProvideSettingsManager creates the settings use case.
func ProvideSettingsManager(store domrepo.SettingsStore, gate *advisor.Gate) *usecase.SettingsManager {
	return usecase.NewSettingsManager(store, gate)
}

// ProvideCompleter creates the OpenAI chat client. The key is read from the
// settings store on every call so dashboard updates take effect immediately.
func ProvideCompleter(cfg *config.Config, manager *usecase.SettingsManager, log *applogger.Logger) domsvc.Completer {
	opts := []advisor.OpenAIOption{}
	if cfg.AI.BaseURL != "" {
		opts = append(opts, advisor.WithBaseURL(cfg.AI.BaseURL))
	}
	return advisor.NewOpenAIClient(manager.APIKey(cfg.AI.APIKey), log, opts...)
}

// ProvideResolver creates the completion response resolver.
func ProvideResolver(log *applogger.Logger) *advisor.Resolver {
	return advisor.NewResolver(log)
}

// ProvideFeedSnapshot creates the shared feed snapshot.
func ProvideFeedSnapshot() *usecase.FeedSnapshot {
	return usecase.NewFeedSnapshot()
}

// ProvideNewsSource creates the RSS news service.
func ProvideNewsSource(cfg *config.Config, log *applogger.Logger, m domrepo.Metrics) domrepo.NewsSource {
	return feeds.NewNewsService(cfg.Feeds.RSSURLs, cfg.Feeds.MaxItems, cfg.Feeds.Timeout, log, m)
}

// ProvideQuoteSource creates the spot rate service.
func ProvideQuoteSource(cfg *config.Config, log *applogger.Logger, m domrepo.Metrics) domrepo.QuoteSource {
	return feeds.NewQuoteService(cfg.Quotes.FastForexKey, cfg.Quotes.ExchangeRateKey, cfg.Quotes.Timeout, log, m)
}

// ProvideCalendarSource creates the economic calendar service.
func ProvideCalendarSource(cfg *config.Config, log *applogger.Logger, m domrepo.Metrics) domrepo.CalendarSource {
	return feeds.NewCalendarService(cfg.Calendar.URLs, cfg.Calendar.Timeout, log, m)
}

// ProvideTranslateService creates the headline translator, nil when disabled.
func ProvideTranslateService(cfg *config.Config, c cache.Service, log *applogger.Logger) *translate.Service {
	if !cfg.Translate.Enabled {
		return nil
	}
	return translate.New(cfg.Translate.BaseURL, cfg.Translate.Email, c, cfg.Translate.CacheTTL, log)
}

// ProvideKafkaProducer creates a Kafka producer when export is configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the analysis event publisher, nil when Kafka is off.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideAnalyzer creates the analysis pipeline use case.
func ProvideAnalyzer(
	snapshot *usecase.FeedSnapshot,
	store domrepo.SettingsStore,
	gate *advisor.Gate,
	completer domsvc.Completer,
	resolver *advisor.Resolver,
	publisher domrepo.Publisher,
	m domrepo.Metrics,
	log *applogger.Logger,
) *usecase.Analyzer {
	return usecase.NewAnalyzer(snapshot, store, gate, completer, resolver, publisher, m, log)
}

// ProvideRefresher schedules the feed refresh cycles.
func ProvideRefresher(
	cfg *config.Config,
	snapshot *usecase.FeedSnapshot,
	news domrepo.NewsSource,
	quotes domrepo.QuoteSource,
	calendar domrepo.CalendarSource,
	translator *translate.Service,
	q *queue.RedisQueue,
	hub *api.QuoteHub,
	log *applogger.Logger,
) *usecase.Refresher {
	opts := []usecase.RefresherOption{usecase.WithBroadcaster(hub)}
	if translator != nil {
		opts = append(opts, usecase.WithTranslator(translator))
	}
	if q != nil {
		opts = append(opts, usecase.WithHeadlineQueue(q))
	}
	return usecase.NewRefresher(
		snapshot, news, quotes, calendar,
		cfg.Feeds.RefreshInterval, cfg.Quotes.RefreshInterval,
		log, opts...,
	)
}

// ProvideQueue creates the Redis job queue consuming translation work.
// Nil when Redis or translation is off; headlines then translate inline.
func ProvideQueue(cfg *config.Config, rc *cache.RedisCache, svc *translate.Service, log *applogger.Logger) *queue.RedisQueue {
	if rc == nil || svc == nil {
		return nil
	}
	return queue.NewRedisConsumer(log, &queue.QueueConfig{Workers: 2, RetryLimit: 3}, rc.Client(), []queue.Job{
		translate.NewHeadlineJob(svc),
	})
}

// ProvideQuoteHub creates the WebSocket quote hub.
func ProvideQuoteHub(log *applogger.Logger) *api.QuoteHub {
	return api.NewQuoteHub(log)
}

// ProvideHandler creates the dashboard HTTP handler.
func ProvideHandler(
	log *applogger.Logger,
	analyzer *usecase.Analyzer,
	manager *usecase.SettingsManager,
	snapshot *usecase.FeedSnapshot,
	hub *api.QuoteHub,
) *api.DashboardHandler {
	return api.NewDashboardHandler(log, analyzer, manager, snapshot, hub)
}

// ProvideApp assembles the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler *api.DashboardHandler,
	refresher *usecase.Refresher,
	q *queue.RedisQueue,
	publisher domrepo.Publisher,
	rc *cache.RedisCache,
) *server.App {
	// with Kafka on, warn and error logs also ship to the bus
	if kp, ok := publisher.(*internalrepo.KafkaPublisher); ok && kp != nil {
		log.AddCollector(&applogger.CollectionConfig{
			BufferSize:   cfg.Logs.BufferSize,
			TimeInterval: time.Minute,
			Topic:        "fxdesk.logs",
			Publisher:    kp,
		})
	}
	return server.New(cfg, log, handler, refresher, q, publisher, rc)
}

package di

import (
	"context"
	"fmt"
	"time"

	"SignalDesk/internal/domain/repository"
	domsvc "SignalDesk/internal/domain/service"
	"SignalDesk/internal/handler/api"
	"SignalDesk/internal/recommend"
	internalrepo "SignalDesk/internal/repository"
	"SignalDesk/internal/risk"
	icache "SignalDesk/internal/service/cache"
	"SignalDesk/internal/service/marketdata"
	svcmetrics "SignalDesk/internal/service/metrics"
	"SignalDesk/internal/service/ratelimit"
	sig "SignalDesk/internal/signal"
	"SignalDesk/internal/usecase"
	pkgch "SignalDesk/pkg/clickhouse"
	"SignalDesk/pkg/config"
	pkgkafka "SignalDesk/pkg/kafka"
	applogger "SignalDesk/pkg/logger"
	"SignalDesk/pkg/metrics"
	pkgpg "SignalDesk/pkg/postgres"
	"SignalDesk/pkg/queue"
	"SignalDesk/pkg/server"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvidePostgresClient creates the PostgreSQL client and ensures schema.
func ProvidePostgresClient(cfg *config.Config) (*pkgpg.Client, error) {
	client, err := pkgpg.NewClient(
		pkgpg.WithHost(cfg.Postgres.Host),
		pkgpg.WithPort(cfg.Postgres.Port),
		pkgpg.WithDatabase(cfg.Postgres.Database),
		pkgpg.WithCredentials(cfg.Postgres.User, cfg.Postgres.Password),
		pkgpg.WithSSLMode(cfg.Postgres.SSLMode),
		pkgpg.WithMaxConnections(cfg.Postgres.MaxOpenConns, cfg.Postgres.MaxIdleConns),
		pkgpg.WithConnectTimeout(cfg.Postgres.ConnectTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("postgres client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		`CREATE TABLE IF NOT EXISTS bars (
            symbol TEXT NOT NULL,
            date DATE NOT NULL,
            open DOUBLE PRECISION NOT NULL,
            high DOUBLE PRECISION NOT NULL,
            low DOUBLE PRECISION NOT NULL,
            close DOUBLE PRECISION NOT NULL,
            volume BIGINT NOT NULL,
            PRIMARY KEY (symbol, date)
        )`,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}

	return client, nil
}

// ProvideClickHouseClient creates the optional signal history client.
// Returns nil when clickhouse is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS signaldesk",
		`CREATE TABLE IF NOT EXISTS signaldesk.signal_history (
            symbol String,
            timeframe String,
            direction String,
            strength Float64,
            confidence Float64,
            agreement Float64,
            data_points Int32,
            created_at DateTime
        ) ENGINE=MergeTree ORDER BY (symbol, created_at)`,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideRedisClient creates the shared Redis client, nil when disabled.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideKafkaProducer creates a Kafka producer, nil when kafka is disabled.
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

// ProvideKafkaConsumer creates a Kafka consumer, nil when kafka is disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	svcmetrics.Register()
	return metrics.New()
}

// ProvideBarStore wraps the Postgres bars table as the pipeline read side.
func ProvideBarStore(pg *pkgpg.Client, l *applogger.Logger) *internalrepo.PostgresBarStore {
	store := internalrepo.NewPostgresBarStore(pg)
	store.SetLogger(l)
	return store
}

// ProvideBarPublisher creates the Kafka bar publisher, nil without kafka.
func ProvideBarPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.BarPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaBarPublisher(producer, cfg.Kafka.Topic)
}

// ProvideSignalArchive creates the ClickHouse archive, nil when disabled.
func ProvideSignalArchive(ch *pkgch.Client, l *applogger.Logger) repository.SignalArchive {
	if ch == nil {
		return nil
	}
	archive := internalrepo.NewCHSignalArchive(ch)
	archive.SetLogger(l)
	return archive
}

// ProvideMarketDataProvider creates the upstream daily bar client.
func ProvideMarketDataProvider(cfg *config.Config) repository.MarketDataProvider {
	timeout := cfg.MarketData.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return marketdata.New(cfg.MarketData.APIKey, cfg.MarketData.BaseURL, timeout)
}

// ProvideGenerators builds the five signal generators with configured confidences.
func ProvideGenerators(cfg *config.Config) []domsvc.Generator {
	conf := sig.NewStaticConfidence(cfg.Signals.Confidences)
	return []domsvc.Generator{
		sig.NewTechnicalGenerator(conf),
		sig.NewMomentumGenerator(conf),
		sig.NewVolumeGenerator(conf),
		sig.NewVolatilityGenerator(conf),
		sig.NewTrendGenerator(conf),
	}
}

// ProvideAggregator builds the weighted aggregator from config.
func ProvideAggregator(cfg *config.Config) (*sig.Aggregator, error) {
	w := sig.DefaultWeights()
	cw := cfg.Signals.Weights
	if cw.Technical+cw.Momentum+cw.Volume+cw.Trend+cw.Volatility != 0 {
		w = sig.Weights{
			Technical:  cw.Technical,
			Momentum:   cw.Momentum,
			Volume:     cw.Volume,
			Trend:      cw.Trend,
			Volatility: cw.Volatility,
		}
	}
	t := sig.DefaultThresholds()
	if cfg.Signals.Thresholds.Bullish != 0 {
		t.Bullish = cfg.Signals.Thresholds.Bullish
	}
	if cfg.Signals.Thresholds.Bearish != 0 {
		t.Bearish = cfg.Signals.Thresholds.Bearish
	}
	return sig.NewAggregator(w, t)
}

// ProvideEstimator builds the risk estimator.
func ProvideEstimator(cfg *config.Config) *risk.Estimator {
	return risk.NewEstimator(risk.Config{VaRConfidence: cfg.Signals.VaRConfidence})
}

// ProvideEngine builds the recommendation engine.
func ProvideEngine(cfg *config.Config) *recommend.Engine {
	r := cfg.Signals.Recommend
	return recommend.NewEngine(recommend.Config{
		EntryConfidence: r.EntryConfidence,
		HighVolatility:  r.HighVolatility,
		HoldConfidence:  r.HoldConfidence,
		MaxPositionSize: r.MaxPositionSize,
		RiskBudget:      r.RiskBudget,
		ReduceFactor:    r.ReduceFactor,
	})
}

// ProvidePipeline wires the full signal generation flow.
func ProvidePipeline(
	store *internalrepo.PostgresBarStore,
	generators []domsvc.Generator,
	agg *sig.Aggregator,
	estimator *risk.Estimator,
	engine *recommend.Engine,
	archive repository.SignalArchive,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.SignalPipeline {
	p := usecase.NewSignalPipeline(store, generators, agg, estimator, engine, m, l, usecase.PipelineConfig{
		MinWindow:       cfg.Signals.MinWindow,
		DefaultLookback: cfg.Signals.DefaultLookback,
		BenchmarkSymbol: cfg.Signals.BenchmarkSymbol,
	})
	if archive != nil {
		p.SetArchive(archive)
	}
	return p
}

// ProvideBarProcessor routes ingested bars per the configured backend.
func ProvideBarProcessor(
	pub repository.BarPublisher,
	store *internalrepo.PostgresBarStore,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.BarProcessor {
	return usecase.NewBarProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideBarLoader pulls vendor windows through the processor.
func ProvideBarLoader(
	provider repository.MarketDataProvider,
	proc *usecase.BarProcessor,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.BarLoader {
	return usecase.NewBarLoader(provider, proc, m, l)
}

// ProvideKafkaBarsHandler registers the handler for the bars topic.
func ProvideKafkaBarsHandler(store *internalrepo.PostgresBarStore, m repository.Metrics, cfg *config.Config) *usecase.KafkaBarsHandler {
	return usecase.NewKafkaBarsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideRefreshQueue creates the Redis refresh queue with the loader job
// registered. Returns nil when Redis is disabled.
func ProvideRefreshQueue(cli *redis.Client, loader *usecase.BarLoader, cfg *config.Config, l *applogger.Logger) *queue.RedisQueue {
	if cli == nil {
		return nil
	}
	qc := &queue.QueueConfig{
		Workers:    cfg.Redis.Queue.Workers,
		RetryLimit: cfg.Redis.Queue.RetryLimit,
		RetryDelay: cfg.Redis.Queue.RetryDelay,
	}
	q := queue.NewRedisQueue(l, qc, cli, queue.ModeProducerConsumer,
		queue.WithKeyPrefix("signaldesk:queue"))
	q.RegisterJob(usecase.NewRefreshJob(loader))
	return q
}

// ProvideBytesCache prefers Redis for response caching, falling back to the
// in-process TTL cache.
func ProvideBytesCache(cli *redis.Client) icache.BytesCache {
	if cli != nil {
		return icache.NewRedisCacheWithClient(cli)
	}
	return icache.NewTTLCache()
}

// ProvideSignalsHandler assembles the HTTP surface.
func ProvideSignalsHandler(
	l *applogger.Logger,
	pipeline *usecase.SignalPipeline,
	store *internalrepo.PostgresBarStore,
	archive repository.SignalArchive,
	q *queue.RedisQueue,
	bc icache.BytesCache,
	ch *pkgch.Client,
) *api.SignalsHandler {
	bars := usecase.NewBarsUseCase(store)
	var qs queue.QueueService
	if q != nil {
		qs = q
	}
	h := api.NewSignalsHandler(l, pipeline, bars, archive, qs, bc, ratelimit.New())
	h.SetHealthCheck(func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := store.Health(ctx); err != nil {
			return err
		}
		if ch != nil {
			return ch.Health(ctx)
		}
		return nil
	})
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.SignalsHandler,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaBarsHandler,
	q *queue.RedisQueue,
	proc *usecase.BarProcessor,
	pg *pkgpg.Client,
	ch *pkgch.Client,
) *server.App {
	return server.New(cfg, l, handler, consumer, kh, q, proc, pg, ch)
}

//go:build wireinject
// +build wireinject

package di

import (
	"SignalDesk/pkg/config"
	"SignalDesk/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvidePostgresClient,
		ProvideClickHouseClient,
		ProvideRedisClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideBarStore,
		ProvideBarPublisher,
		ProvideSignalArchive,
		ProvideMarketDataProvider,

		// Signal pipeline
		ProvideGenerators,
		ProvideAggregator,
		ProvideEstimator,
		ProvideEngine,
		ProvidePipeline,

		// Ingest
		ProvideBarProcessor,
		ProvideBarLoader,
		ProvideKafkaBarsHandler,
		ProvideRefreshQueue,

		// HTTP surface
		ProvideBytesCache,
		ProvideSignalsHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

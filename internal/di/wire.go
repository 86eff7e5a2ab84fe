//go:build wireinject
// +build wireinject

package di

import (
	"FxDesk/pkg/config"
	"FxDesk/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideRedisCache,
		ProvideCache,
		ProvideKafkaProducer,
		ProvidePublisher,
		ProvideQueue,

		// Settings and spend gate
		ProvideSettingsStore,
		ProvideGate,
		ProvideSettingsManager,

		// Feeds and translation
		ProvideFeedSnapshot,
		ProvideNewsSource,
		ProvideQuoteSource,
		ProvideCalendarSource,
		ProvideTranslateService,

		// Analysis pipeline
		ProvideCompleter,
		ProvideResolver,
		ProvideAnalyzer,
		ProvideRefresher,

		// HTTP surface
		ProvideQuoteHub,
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}

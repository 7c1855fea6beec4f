//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"rvd/internal"
	"rvd/internal/bot"
	"rvd/internal/controllers"
	"rvd/internal/geocode"
	"rvd/internal/providers"
	"rvd/internal/services"
	"rvd/internal/store"
	"rvd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewZstdCompressor,
		store.NewFileManager,
		store.NewArchive,
		store.NewReportStore,
		store.NewChannelDirectory,
		store.NewScheduler,

		geocode.NewResolver,

		bot.NewTelegramTransport,
		wire.Bind(new(bot.Transport), new(*bot.TelegramTransport)),

		services.NewSubscriptionService,
		services.NewStatsSource,
		services.NewBroadcastService,
		services.NewReportService,
		services.NewVoteProcessor,

		controllers.NewBotController,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"github.com/ejfox/dispatch-obsidian/internal"
	"github.com/ejfox/dispatch-obsidian/internal/controllers"
	"github.com/ejfox/dispatch-obsidian/internal/dispatch"
	"github.com/ejfox/dispatch-obsidian/internal/providers"
	"github.com/ejfox/dispatch-obsidian/internal/services"
	"github.com/ejfox/dispatch-obsidian/internal/structures"
	"github.com/ejfox/dispatch-obsidian/internal/vault"
	"github.com/ejfox/dispatch-obsidian/internal/watch"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewMetricsProvider,

		vault.NewScanner,
		services.NewStatusService,
		services.NewQueueService,
		services.NewStreakService,
		services.NewSessionService,
		services.NewPostService,
		services.NewStatsSource,

		dispatch.NewZstdCompressor,
		dispatch.NewStateManager,
		dispatch.NewScheduler,
		watch.NewVaultWatcher,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

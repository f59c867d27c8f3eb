//go:build wireinject
// +build wireinject

package di

import (
	"github.com/KanoeWallet/Kanoe/internal"
	"github.com/KanoeWallet/Kanoe/internal/assets"
	"github.com/KanoeWallet/Kanoe/internal/controllers"
	"github.com/KanoeWallet/Kanoe/internal/engine"
	"github.com/KanoeWallet/Kanoe/internal/persistence"
	"github.com/KanoeWallet/Kanoe/internal/persistence/interfaces"
	"github.com/KanoeWallet/Kanoe/internal/providers"
	"github.com/KanoeWallet/Kanoe/internal/services"
	"github.com/KanoeWallet/Kanoe/internal/structures"
	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		assets.NewBankProvider,
		services.SystemClock,
		engine.NewKanoe,
		wire.Bind(new(engine.KanoeInterface), new(*engine.Kanoe)),
		wire.Bind(new(interfaces.SnapshotterInterface), new(*engine.Kanoe)),
		wire.Bind(new(providers.StateSourceInterface), new(*engine.Kanoe)),

		persistence.NewZstdCompressor,
		persistence.NewSnapshotStore,
		persistence.NewFileManager,
		persistence.NewScheduler,

		controllers.NewApiController,
		controllers.NewOperationsController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

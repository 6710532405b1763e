package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"foodshare/internal/bootstrap/config"
	"foodshare/internal/bootstrap/database"
	"foodshare/internal/bootstrap/logging"
	cacheinfra "foodshare/internal/infrastructure/cache"
	"foodshare/internal/infrastructure/modelstore"
	"foodshare/internal/infrastructure/notify"
	sqliterepo "foodshare/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "foodshare/internal/infrastructure/persistence/sqlite/uow"
	"foodshare/internal/ports"
	riskuc "foodshare/internal/usecase/risk"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideModelProvider),
	fx.Provide(func(p *modelstore.FileProvider) ports.ModelProvider { return p }),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewListingRepository,
			fx.As(new(ports.ListingRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(provideNotificationChannel),
	fx.Provide(provideRiskService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideModelProvider(cfg config.Config) *modelstore.FileProvider {
	return modelstore.NewFileProvider(cfg.Model.ArtifactPath)
}

func provideNotificationChannel(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.NotificationChannel, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	if cfg.Notify.NATSURL == "" {
		logging.Info(logCtx, "no nats url configured, alerts go to the log channel")
		return notify.NewLogChannel(), nil
	}

	channel, err := notify.NewNATSChannel(cfg.Notify.NATSURL, cfg.Notify.SubjectPrefix)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			channel.Close()
			return nil
		},
	})

	logging.Info(logCtx, "nats notification channel connected", slog.String("url", cfg.Notify.NATSURL))
	return channel, nil
}

func provideRiskService(
	repo ports.ListingRepository,
	models ports.ModelProvider,
	uow ports.UnitOfWork,
	cache ports.Cache,
	channel ports.NotificationChannel,
	cfg config.Config,
) *riskuc.Service {
	return riskuc.NewService(repo, models, uow, cache, channel, cfg.Notify.DedupWindow)
}

func provideApp(cfg config.Config, db *gorm.DB, models *modelstore.FileProvider) *App {
	return &App{
		Config: cfg,
		DB:     db,
		Models: models,
	}
}

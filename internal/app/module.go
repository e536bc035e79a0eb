package app

import (
	"context"

	"github.com/matheus3301/bookadmin/internal/api"
	"github.com/matheus3301/bookadmin/internal/bus"
	"github.com/matheus3301/bookadmin/internal/config"
	"github.com/matheus3301/bookadmin/internal/importer"
	"github.com/matheus3301/bookadmin/internal/lock"
	"github.com/matheus3301/bookadmin/internal/logging"
	"github.com/matheus3301/bookadmin/internal/profile"
	"github.com/matheus3301/bookadmin/internal/query"
	"github.com/matheus3301/bookadmin/internal/session"
	"github.com/matheus3301/bookadmin/internal/store"
	"github.com/matheus3301/bookadmin/internal/table"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the resolved profile and settings passed to the fx module.
type Params struct {
	Profile string
	Config  *config.Config
	// Console mirrors log lines to stderr.
	Console bool
	Debug   bool
	// Exclusive takes the profile lock so only one interactive console runs.
	Exclusive bool
}

// Tables holds the paginated views shared by the consoles.
type Tables struct {
	Users      *table.Controller[api.User]
	Books      *table.Controller[api.Book]
	Storefront *table.Controller[api.Book]
}

// Module returns the fx module for one profile, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	if p.Config == nil {
		p.Config = config.Defaults()
	}
	return fx.Module("bookadmin",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideCredentials,
			provideClient,
			provideSession,
			provideImporter,
			provideTables,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	return logging.New(profile.LogPath(p.Profile), logging.Options{
		Profile: p.Profile,
		Console: p.Console,
		Debug:   p.Debug,
	})
}

func provideBus() *bus.Bus {
	return bus.New()
}

// provideLock returns a nil lock for non-exclusive runs; Release is nil-safe.
func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if !p.Exclusive {
		return nil, nil
	}
	l, err := lock.Acquire(profile.Dir(p.Profile))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	path := profile.StorePath(p.Profile)
	db, err := store.OpenMigrated(path, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("store initialized", zap.String("path", path))
	return db, nil
}

func provideCredentials() *api.Credentials {
	return &api.Credentials{}
}

func provideClient(p Params, creds *api.Credentials, logger *zap.Logger) (*api.Client, error) {
	return api.New(p.Config.BackendURL, p.Config.Timeout(), creds, logger.Named("api"))
}

func provideSession(client *api.Client, db *store.DB, creds *api.Credentials, b *bus.Bus, logger *zap.Logger) *session.Manager {
	return session.New(client, db, creds, b, logger.Named("session"))
}

func provideImporter(p Params, client *api.Client, db *store.DB, b *bus.Bus, logger *zap.Logger) *importer.Importer {
	return importer.New(client, db, b, p.Config.ImportPassword, logger.Named("importer"))
}

func provideTables(p Params, client *api.Client, logger *zap.Logger) *Tables {
	bounds := query.PriceRange{Min: p.Config.PriceMin, Max: p.Config.PriceMax}
	return &Tables{
		Users:      table.New(query.Users, p.Config.PageSize, client.ListUsers, logger),
		Books:      table.New(query.Books, p.Config.PageSize, client.ListBooks, logger),
		Storefront: table.New(query.Storefront(bounds), p.Config.StorePageSize, client.ListBooks, logger),
	}
}

func registerLifecycle(lc fx.Lifecycle, p Params, db *store.DB, lk *lock.Lock, mgr *session.Manager, tables *Tables, b *bus.Bus, logger *zap.Logger) {
	watchCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go tables.Users.Watch(watchCtx, b, "users.")
			go tables.Books.Watch(watchCtx, b, "books.")
			go tables.Storefront.Watch(watchCtx, b, "books.")

			if err := mgr.Restore(ctx); err != nil {
				logger.Warn("could not restore session", zap.Error(err))
			}
			logger.Info("started",
				zap.String("backend", p.Config.BackendURL),
				zap.String("session", string(mgr.Current())),
			)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("stopped")
			_ = logger.Sync()
			return nil
		},
	})
}

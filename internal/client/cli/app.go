package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/duabook/duabook/internal/client/client"
	"github.com/duabook/duabook/internal/client/config"
	"github.com/duabook/duabook/internal/client/connectivity"
	"github.com/duabook/duabook/internal/client/identity"
	"github.com/duabook/duabook/internal/client/notify"
	"github.com/duabook/duabook/internal/client/repositories/actionlog"
	"github.com/duabook/duabook/internal/client/repositories/cache"
	"github.com/duabook/duabook/internal/client/repositories/metadata"
	"github.com/duabook/duabook/internal/client/services"
	"github.com/duabook/duabook/internal/logging"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

// App wires the duabook client together and drives the interactive REPL.
type App struct {
	config  *config.Config
	engine  *services.Engine
	monitor *connectivity.Monitor
	remote  client.Client
	db      *sql.DB
	log     logging.Logger
	reader  *bufio.Reader

	scheduler *notify.LocalScheduler
}

// NewApp builds the full client stack from config: local SQLite storage,
// REST client, connectivity monitor, reminder scheduler, device identity
// and the reconciliation engine.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewZerologLogger(
		zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger())

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	remote := client.NewRESTClient(c.ServerBaseURL, c.RequestTimeout)

	meta := metadata.NewSQLiteRepository(db)
	actions := actionlog.NewSQLiteRepository(db)
	entityCache := cache.NewSQLiteRepository(db)

	idp := identity.NewProvider(meta, remote, log)
	deviceID, err := idp.EnsureDeviceID(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to provision device id: %w", err)
	}
	remote.SetDeviceID(deviceID)

	monitor := connectivity.NewMonitor(remote, c.OnlineCheckInterval, log)
	scheduler := notify.NewLocalScheduler(log)

	engine := services.NewEngine(remote, actions, entityCache, monitor, scheduler, idp, log)

	return &App{
		config:    c,
		engine:    engine,
		monitor:   monitor,
		remote:    remote,
		db:        db,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		scheduler: scheduler,
	}, nil
}

// Run starts the background loops and blocks in the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.engine.LoadInitialState(ctx)

	go a.monitor.Run(ctx)
	go a.engine.Run(ctx)
	go a.scheduler.Run(ctx)

	a.Root(ctx)
}

// Close releases the remote connection and the local database.
func (a *App) Close() {
	if err := a.remote.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close remote client", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close database", "error", err)
	}
}

package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/thenoetrevino/funil/internal/api"
	"github.com/thenoetrevino/funil/internal/config"
	"github.com/thenoetrevino/funil/internal/dashboard"
	"github.com/thenoetrevino/funil/internal/drag"
	"github.com/thenoetrevino/funil/internal/gateway"
	"github.com/thenoetrevino/funil/internal/notify"
	"github.com/thenoetrevino/funil/internal/pipeline"
	"github.com/thenoetrevino/funil/internal/quickaction"
	"github.com/thenoetrevino/funil/internal/types"
)

// App is the wiring shared by every command: config, session, API client and the
// notification center
type App struct {
	Config   *config.Config
	Session  *gateway.Session
	API      *api.Client
	Notifier *notify.Center
	Logger   *slog.Logger

	logCloser io.Closer
}

// NewApp builds the client stack from the loaded configuration
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	session := gateway.NewSession(cfg.Session.Tenant, cfg.Session.Token)
	gw := gateway.NewClient(cfg.API.Origin, session,
		gateway.WithTimeout(cfg.API.Timeout),
		gateway.WithLogger(logger),
	)
	return &App{
		Config:   cfg,
		Session:  session,
		API:      api.New(gw),
		Notifier: notify.NewCenter(notify.DefaultTTL),
		Logger:   logger,
	}
}

// Seller returns the configured seller scope; zero means every seller
func (a *App) Seller() types.SellerID {
	return types.SellerID(a.Config.SellerID)
}

// NewBoard returns an unloaded board scoped to the configured seller
func (a *App) NewBoard() *pipeline.Board {
	return pipeline.NewBoard(a.API, a.Seller(), pipeline.WithLogger(a.Logger))
}

// NewController returns a drag controller over board using the configured commit settings
func (a *App) NewController(board *pipeline.Board) (*drag.Controller, error) {
	policy, err := drag.ParseRollbackPolicy(a.Config.Board.Rollback)
	if err != nil {
		return nil, err
	}
	return drag.NewController(board, a.Notifier,
		drag.WithLogger(a.Logger),
		drag.WithCommitTimeout(a.Config.Board.CommitTimeout),
		drag.WithRollbackPolicy(policy),
	), nil
}

// NewDispatcher returns a quick-action dispatcher recording through the API
func (a *App) NewDispatcher(opener quickaction.Opener) *quickaction.Dispatcher {
	return quickaction.NewDispatcher(opener, a.API, a.Notifier, a.Logger)
}

// NewAggregator returns a dashboard aggregator reading the stats endpoints
func (a *App) NewAggregator() *dashboard.Aggregator {
	return dashboard.NewAggregator(a.API, a.Logger)
}

// Close releases the log file
func (a *App) Close() error {
	if a.logCloser != nil {
		return a.logCloser.Close()
	}
	return nil
}

type appKey struct{}

// WithApp stores the app in ctx
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// AppFromContext retrieves the app stored by the root command
func AppFromContext(ctx context.Context) (*App, error) {
	app, ok := ctx.Value(appKey{}).(*App)
	if !ok || app == nil {
		return nil, errors.New("application not initialized")
	}
	return app, nil
}

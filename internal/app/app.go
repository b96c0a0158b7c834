package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-gym/internal/actions"
	"github.com/vancomm/minesweeper-gym/internal/config"
	"github.com/vancomm/minesweeper-gym/internal/database"
	"github.com/vancomm/minesweeper-gym/internal/handlers"
	"github.com/vancomm/minesweeper-gym/internal/middleware"
	"github.com/vancomm/minesweeper-gym/internal/repository"
	"github.com/vancomm/minesweeper-gym/internal/session"
)

const shutdownTimeout = time.Second * 15

// App is one environment process: a single game session exposed over HTTP,
// a websocket and stdio.
type App struct {
	logger     *slog.Logger
	router     *http.ServeMux
	dispatcher *actions.Dispatcher
	db         *pgxpool.Pool
	stats      handlers.StatsSource
	jwt        *config.JWT
	ws         *config.WebSocket
	basePath   string
}

func New(logger *slog.Logger) *App {
	return &App{
		logger:   logger,
		router:   http.NewServeMux(),
		ws:       config.NewWebSocket(),
		basePath: config.BasePath(),
	}
}

// Init reads the configuration and connects to the episode database when
// one is configured.
func (a *App) Init(ctx context.Context, withDB bool) error {
	params, seed, err := config.BoardDefaults(actions.StandardDefaults.Params)
	if err != nil {
		return err
	}

	var recorder actions.Recorder
	if withDB {
		db, migrator, err := database.ConnectAndMigrate(ctx)
		switch {
		case errors.Is(err, config.ErrNoDatabase):
			a.logger.Info("no database configured, episode records disabled")
		case err != nil:
			return fmt.Errorf("unable to connect to db: %w", err)
		default:
			if version, dirty, err := migrator.Version(); err == nil {
				a.logger.Debug("database ready", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
			}
			a.db = db
			q := repository.New(db)
			recorder = repository.NewRecorder(q)
			a.stats = q
		}
	}

	j, err := config.NewJWT()
	switch {
	case errors.Is(err, config.ErrNoJWTSecret):
		a.logger.Warn("no JWT secret configured, bearer auth disabled")
	case err != nil:
		return err
	default:
		a.jwt = j
	}

	a.dispatcher = actions.New(
		a.logger,
		session.New(),
		recorder,
		actions.Defaults{Params: params, Seed: seed},
	)
	a.loadRoutes()

	return nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

func (a *App) Handler() http.Handler {
	mws := []middleware.Middleware{
		middleware.Logging(a.logger),
		middleware.Cors(config.AllowedOrigins()),
	}
	if a.jwt != nil {
		mws = append(mws, middleware.Auth(a.logger, a.jwt, a.basePath+"/healthz"))
	}
	return middleware.Wrap(a.router, mws...)
}

// Start serves HTTP on addr until ctx is done, then shuts down gracefully.
func (a *App) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: time.Second * 10,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr), slog.String("base path", a.basePath))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}

// Token issues a bearer token for subject with the configured secret.
func (a *App) Token(subject string) (string, error) {
	if a.jwt == nil {
		return "", config.ErrNoJWTSecret
	}
	return a.jwt.Sign(subject)
}

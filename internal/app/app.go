package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go-bookshelf/internal/config"
	"go-bookshelf/internal/database"
	"go-bookshelf/internal/event"
	"go-bookshelf/internal/handler"
	"go-bookshelf/internal/metrics"
	"go-bookshelf/internal/middleware"
	"go-bookshelf/internal/model"
	"go-bookshelf/internal/repository"
	"go-bookshelf/internal/router"
	"go-bookshelf/internal/security"
	"go-bookshelf/internal/service"
	"go-bookshelf/internal/session"
)

const shutdownTimeout = 10 * time.Second

type userRepository interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
}

type bookRepository interface {
	List(ctx context.Context) ([]model.Book, error)
	FindByID(ctx context.Context, id string) (model.Book, error)
	Create(ctx context.Context, b model.Book) (model.Book, error)
	Update(ctx context.Context, b model.Book) (model.Book, error)
	Delete(ctx context.Context, id string) error
}

type tokenRepository interface {
	Revoke(ctx context.Context, tokenID string, userID string, expiresAt time.Time) (bool, error)
	CleanExpired(ctx context.Context) (int64, error)
}

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var (
		users       userRepository
		books       bookRepository
		revocations tokenRepository
		db          *database.DB
	)

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		users = repository.NewMemoryUserRepository()
		books = repository.NewMemoryBookRepository()
		revocations = repository.NewMemoryTokenRepository()
	default:
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		slog.Info("connecting to PostgreSQL")
		var err error
		db, err = database.New(ctx, database.PoolConfig{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		users = repository.NewUserRepository(db.Pool)
		books = repository.NewBookRepository(db.Pool)
		revocations = repository.NewTokenRepository(db.Pool)
		slog.Info("database ready")
	}

	closeDB := func() {
		if db != nil {
			db.Close()
		}
	}

	hasher, err := security.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		closeDB()
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}
	accessIssuer, err := security.NewTokenIssuer(cfg.JWTAccessSecret, cfg.JWTAccessTTL)
	if err != nil {
		closeDB()
		return nil, fmt.Errorf("failed to initialize access token issuer: %w", err)
	}
	refreshIssuer, err := security.NewTokenIssuer(cfg.JWTRefreshSecret, cfg.JWTRefreshTTL)
	if err != nil {
		closeDB()
		return nil, fmt.Errorf("failed to initialize refresh token issuer: %w", err)
	}

	bus := event.NewBus()
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	auditDone := event.StartAuditLog(cleanupCtx, bus, slog.Default().With("component", "audit"))
	stopBackground := func() {
		cleanupCancel()
		<-auditDone
	}

	authOpts := []service.AuthOption{service.WithAuthEvents(bus)}
	if cfg.RefreshRotation {
		authOpts = append(authOpts, service.WithRefreshRotation(revocations))
	}
	authService, err := service.NewAuthService(users, hasher, accessIssuer, refreshIssuer, authOpts...)
	if err != nil {
		stopBackground()
		closeDB()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	sameSite, err := session.ParseSameSite(cfg.CookieSameSite)
	if err != nil {
		stopBackground()
		closeDB()
		return nil, fmt.Errorf("invalid cookie settings: %w", err)
	}

	cookies := session.NewCookieManager(session.CookieOptions{
		AccessMaxAge:  cfg.AccessCookieMaxAge,
		RefreshMaxAge: cfg.RefreshCookieMaxAge,
		Secure:        cfg.CookieSecure,
		Domain:        cfg.CookieDomain,
		SameSite:      sameSite,
	})

	// A nil *database.DB must not reach the handler as a non-nil interface.
	healthHandler := handler.NewHealthHandler(nil)
	if db != nil {
		healthHandler = handler.NewHealthHandler(db)
	}

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = metrics.Handler(metrics.NewRegistry())
	}

	appRouter := router.New(
		cfg,
		middleware.NewAuthMiddleware(authService, cookies),
		handler.NewAuthHandler(authService, cookies),
		handler.NewBookHandler(service.NewBookService(books, service.WithBookEvents(bus))),
		healthHandler,
		handler.NewDocsHandler(),
		metricsHandler,
	)

	go authService.StartRevocationCleanup(cleanupCtx, cfg.RevocationCleanupInterval)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	slog.Info("application initialized",
		"store", cfg.StoreDriver,
		"refresh_rotation", authService.RotatesRefreshTokens(),
		"metrics", cfg.MetricsEnabled,
	)

	return &App{
		server: server,
		cleanupFuncs: []func(){
			stopBackground,
			closeDB,
		},
	}, nil
}

// Handler exposes the fully wired router.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully: in-flight
// requests drain first, then background work stops and the pool closes.
func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		a.Close()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.Close()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// Close runs the cleanup functions. It is safe to call more than once.
func (a *App) Close() {
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
	a.cleanupFuncs = nil
}

package sweetshop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/crypto/bcrypt"

	// Сгенерированная swag документация для /docs.
	_ "github.com/magabrotheeeer/sweet-shop/docs"
	"github.com/magabrotheeeer/sweet-shop/internal/cache"
	"github.com/magabrotheeeer/sweet-shop/internal/config"
	"github.com/magabrotheeeer/sweet-shop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/jwt"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/password"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/sl"
	"github.com/magabrotheeeer/sweet-shop/internal/migrations"
	"github.com/magabrotheeeer/sweet-shop/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/sweet-shop/internal/services/auth"
	inventoryservice "github.com/magabrotheeeer/sweet-shop/internal/services/inventory"
	"github.com/magabrotheeeer/sweet-shop/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер со всеми зависимостями.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	closers []io.Closer
}

// New подключает хранилище, кеш и брокер, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "sweetshop.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString, repository.Options{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app := &App{logger: logger, db: db}

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var sweetCache inventoryservice.Cache = cache.Noop{}
	if cfg.RedisAddress != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, redisCache)
		sweetCache = redisCache
	} else {
		logger.Warn("redis address is empty, sweet cache disabled")
	}

	notifier, err := app.newNotifier(ctx, cfg.RabbitMQ)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker, password.NewHasher(bcrypt.DefaultCost), logger)
	if cfg.AdminEmail != "" {
		if err = authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Info("admin account ensured", slog.String("email", cfg.AdminEmail))
	}

	inventoryService := inventoryservice.NewInventoryService(db, sweetCache, notifier, logger, inventoryservice.Options{
		CacheTTL:          cfg.CacheTTL,
		LowStockThreshold: cfg.LowStockThreshold,
	})

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Auth:      authService,
		Inventory: inventoryService,
		DB:        db,
		Limiter:   middlewarectx.NewRateLimiter(cfg.RPS, cfg.Burst),
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// newNotifier подключается к RabbitMQ; пустой url отключает уведомления.
func (a *App) newNotifier(ctx context.Context, cfg config.RabbitMQ) (inventoryservice.StockNotifier, error) {
	if cfg.RabbitURL == "" {
		a.logger.Warn("rabbitmq url is empty, low stock notifications disabled")
		return rabbitmq.NoopNotifier{}, nil
	}
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitURL, cfg.RabbitRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	publisher, err := rabbitmq.NewPublisher(ch, cfg.RabbitQueue)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	// Канал закрывается раньше соединения.
	a.closers = append(a.closers, publisher, conn)
	return publisher, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает ресурсы в порядке их создания, база закрывается последней.
func (a *App) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}

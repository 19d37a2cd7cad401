package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nekogravitycat/coworking-booking-backend/internal/api"
	"github.com/nekogravitycat/coworking-booking-backend/internal/auth"
	"github.com/nekogravitycat/coworking-booking-backend/internal/booking"
	"github.com/nekogravitycat/coworking-booking-backend/internal/config"
	"github.com/nekogravitycat/coworking-booking-backend/internal/events"
	"github.com/nekogravitycat/coworking-booking-backend/internal/lock"
	"github.com/nekogravitycat/coworking-booking-backend/internal/resource"
	"github.com/nekogravitycat/coworking-booking-backend/internal/user"
)

const eventQueueSize = 256

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager

	UserService     user.Service
	ResourceService resource.Service
	BookingService  booking.Service

	closers []func() error
}

// NewContainer initializes all modules and returns the container.
// pool may be nil when cfg.Storage is config.StorageMemory.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (*Container, error) {
	if cfg.Storage == config.StoragePostgres && pool == nil {
		return nil, fmt.Errorf("storage %q needs a database pool", cfg.Storage)
	}

	c := &Container{}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	c.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)

	var (
		userRepo     user.Repository
		resourceRepo resource.Repository
		bookingRepo  booking.Repository
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		userRepo = user.NewPgxRepository(pool)
		resourceRepo = resource.NewPgxRepository(pool)
		bookingRepo = booking.NewPgxRepository(pool)
	default:
		userRepo = user.NewMemoryRepository()
		resourceRepo = resource.NewMemoryRepository()
		bookingRepo = booking.NewMemoryRepository()
	}

	// User Module
	c.UserService = user.NewService(userRepo, passwordHasher)

	// Resource Module
	c.ResourceService = resource.NewService(resourceRepo)

	// Booking Module
	locker, err := c.newLocker(cfg, pool)
	if err != nil {
		return nil, err
	}

	sink, err := newSink(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	dispatcher := events.NewDispatcher(sink, eventQueueSize)
	c.closers = append(c.closers, dispatcher.Close)

	c.BookingService = booking.NewService(bookingRepo, c.UserService, c.ResourceService, locker,
		booking.WithLocation(cfg.Location),
		booking.WithBusinessHours(booking.BusinessHours{Open: cfg.OpenAt, Close: cfg.CloseAt}),
		booking.WithEventPublisher(dispatcher),
	)

	if cfg.AdminUsername != "" {
		admin, err := c.UserService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("ensure admin: %w", err)
		}
		slog.InfoContext(ctx, "admin account ready", "user_id", admin.ID, "username", admin.Username)
	}

	// Router
	c.Router = api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
		UserService:     c.UserService,
		ResourceService: c.ResourceService,
		BookingService:  c.BookingService,
		JWTManager:      c.JWTManager,
	})

	return c, nil
}

func (c *Container) newLocker(cfg *config.Config, pool *pgxpool.Pool) (booking.Locker, error) {
	switch cfg.LockBackend {
	case config.LockPostgres:
		return lock.NewPostgres(pool, cfg.LockTimeout), nil
	case config.LockRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		c.closers = append(c.closers, client.Close)
		return lock.NewRedis(client, cfg.LockTTL, cfg.LockTimeout), nil
	case config.LockMemory, "":
		return lock.NewKeyed(cfg.LockTimeout), nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", cfg.LockBackend)
	}
}

func newSink(cfg *config.Config) (events.Sink, error) {
	if cfg.AMQPURL == "" {
		slog.Info("AMQP_URL not set, booking events are discarded")
		return events.Noop{}, nil
	}
	pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return pub, nil
}

// Close releases background workers and client connections, newest first.
// The database pool is owned by the caller.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 5 * time.Second

package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nekogravitycat/coworking-booking-backend/internal/auth"
	"github.com/nekogravitycat/coworking-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/coworking-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/coworking-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/coworking-booking-backend/internal/resource"
	resHttp "github.com/nekogravitycat/coworking-booking-backend/internal/resource/http"
	"github.com/nekogravitycat/coworking-booking-backend/internal/user"
	userHttp "github.com/nekogravitycat/coworking-booking-backend/internal/user/http"
)

// Config holds the services and settings the router is built from.
type Config struct {
	IsProduction bool
	ProdOrigins  []string

	// RateLimitRPS <= 0 disables per-client rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	UserService     user.Service
	ResourceService resource.Service
	BookingService  booking.Service
	JWTManager      *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	request.RegisterValidations()

	r := gin.New()

	// Global Middleware:
	// - RequestID: Tags each request so log lines can be correlated.
	// - RequestLogger: Structured access log via slog.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	// - Metrics: Prometheus request counters and latency.
	r.Use(RequestID(), RequestLogger(), gin.Recovery(), Metrics())

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	if cfg.IsProduction {
		config.AllowOrigins = cfg.ProdOrigins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	config.MaxAge = 12 * time.Hour
	r.Use(cors.New(config))

	if cfg.RateLimitRPS > 0 {
		r.Use(RateLimit(NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated user is an administrator.
	adminMiddleware := RequireAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	resHandler := resHttp.NewHandler(cfg.ResourceService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.UserService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		resHttp.RegisterRoutes(v1, resHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
	}

	return r
}

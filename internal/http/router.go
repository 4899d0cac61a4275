package api

import (
	stdhttp "net/http"

	intconfig "journeycompass/internal/config"
	h "journeycompass/internal/http/handlers"
	"journeycompass/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the handlers the router mounts.
type Deps struct {
	Auth     h.AuthHandler
	Buses    h.BusHandler
	Bookings h.BookingHandler
	Sessions middleware.Sessions
	Log      *zap.Logger
}

func NewRouter(env intconfig.Env, deps Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth/otp")
		auth.Use(middleware.RateLimitPerIP(env.OTPRatePerMinute, log))
		auth.POST("/send", deps.Auth.SendOTP)
		auth.POST("/verify", deps.Auth.VerifyOTP)

		// Catalog & seats
		buses := api.Group("/buses")
		buses.GET("", deps.Buses.ListBuses)
		buses.GET("/:id/availability", deps.Buses.Availability)
		buses.GET("/:id/seats", deps.Buses.SeatMap)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.Use(middleware.RequireUser(deps.Sessions))
		bookings.POST("", deps.Bookings.Create)
		bookings.GET("", deps.Bookings.List)
		bookings.GET("/:id/e-ticket", deps.Bookings.ETicket)
		bookings.POST("/:id/cancel", deps.Bookings.Cancel)
	}

	h.SetRouter(r)
	return r
}

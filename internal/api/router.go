package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/devtrack/device-tracker/docs"
	"github.com/devtrack/device-tracker/internal/api/handler"
	"github.com/devtrack/device-tracker/internal/api/middleware"
	"github.com/devtrack/device-tracker/internal/core/ports"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Log     zerolog.Logger
	Auth    ports.AuthService
	Devices ports.DeviceService
	Tokens  ports.TokenVerifier
	// Checks feed the readiness probe.
	Checks []handler.Check
	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "devicetracker",
		Registerer: registerer,
	}))

	// --- Ops routes (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.Checks...)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/api/register", authHandler.Register)
	e.POST("/api/login", authHandler.Login)

	// --- Device routes: every one behind the bearer check ---
	deviceHandler := handler.NewDeviceHandler(d.Devices)
	devices := e.Group("/api/devices", middleware.Auth(d.Tokens))
	devices.GET("", deviceHandler.List)
	devices.POST("", deviceHandler.Create)
	devices.PUT("/:id", deviceHandler.Update)
	devices.DELETE("/:id", deviceHandler.Delete)

	return e
}

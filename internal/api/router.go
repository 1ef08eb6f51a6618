package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/kasinav/kasi-nav/docs"
	"github.com/kasinav/kasi-nav/internal/api/handler"
	"github.com/kasinav/kasi-nav/internal/api/middleware"
	"github.com/kasinav/kasi-nav/internal/core/domain"
	"github.com/kasinav/kasi-nav/internal/core/ports"
)

// Dependencies is everything the router needs to serve requests.
type Dependencies struct {
	Log            zerolog.Logger
	Auth           ports.AuthService
	Sessions       ports.SessionService
	State          handler.StateReader
	Deliveries     ports.DeliveryService
	Assistant      ports.AssistantService
	Registry       ports.LandmarkRegistry
	Drivers        ports.DriverFeed
	Checkers       []handler.DependencyChecker
	IncidentMaxAge time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, handler.HeaderDeviceID},
	}))
	e.Use(echoprometheus.NewMiddleware("kasinav"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	sessionHandler := handler.NewSessionHandler(deps.Sessions, deps.State)
	landmarkHandler := handler.NewLandmarkHandler(deps.Registry, deps.IncidentMaxAge)
	deliveryHandler := handler.NewDeliveryHandler(deps.Deliveries, deps.Assistant)
	assistantHandler := handler.NewAssistantHandler(deps.Assistant, deps.Deliveries, deps.Registry, deps.IncidentMaxAge)
	mapHandler := handler.NewMapHandler(deps.Deliveries, deps.Registry, deps.IncidentMaxAge)
	driverHandler := handler.NewDriverHandler(deps.Drivers)
	paymentHandler := handler.NewPaymentHandler()

	authMiddleware := middleware.Auth(deps.Auth)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checkers...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/signout", authHandler.SignOut, authMiddleware)
	auth.GET("/session", authHandler.Session, authMiddleware)
	auth.GET("/user", authHandler.User, authMiddleware)

	// --- Application routes ---
	v1 := e.Group("/v1", authMiddleware, middleware.CallerRole(deps.Sessions))

	v1.GET("/session", sessionHandler.Get)
	v1.PUT("/session/role", sessionHandler.ChooseRole)
	v1.DELETE("/session/role", sessionHandler.SignOut)
	v1.GET("/state", sessionHandler.State)

	v1.GET("/landmarks", landmarkHandler.List)
	v1.GET("/landmarks/:id", landmarkHandler.Get)
	v1.POST("/landmarks/:id/verify", landmarkHandler.Verify,
		middleware.RBAC(domain.RoleBusiness, domain.RoleHubOwner))
	v1.GET("/incidents", landmarkHandler.Incidents)

	v1.GET("/deliveries", deliveryHandler.List)
	v1.POST("/deliveries", deliveryHandler.Create,
		middleware.RBAC(domain.RoleConsumer, domain.RoleBusiness, domain.RoleHubOwner))
	v1.POST("/deliveries/select", deliveryHandler.Select)
	v1.GET("/deliveries/:id", deliveryHandler.Get)
	v1.POST("/deliveries/:id/status", deliveryHandler.Advance,
		middleware.RBAC(domain.RoleCourier, domain.RoleHubOwner))

	assistant := v1.Group("/assistant")
	assistant.POST("/parse", assistantHandler.Parse)
	assistant.POST("/route", assistantHandler.Route)
	assistant.POST("/safety", assistantHandler.Safety)
	assistant.POST("/chat", assistantHandler.Chat)

	v1.GET("/map/scene", mapHandler.Scene)
	v1.GET("/map/scene.svg", mapHandler.SceneSVG)
	v1.POST("/map/click", mapHandler.Click)

	v1.GET("/drivers", driverHandler.Drivers)
	v1.GET("/zones", driverHandler.Zones)

	v1.GET("/payments", paymentHandler.List)
	v1.GET("/payments/:gateway", paymentHandler.Redirect)

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

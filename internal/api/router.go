package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/xchange/skill-exchange/internal/api/handler"
	"github.com/xchange/skill-exchange/internal/api/middleware"
	"github.com/xchange/skill-exchange/internal/core/ports"

	_ "github.com/xchange/skill-exchange/docs"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Logger zerolog.Logger

	Users       ports.UserService
	Posts       ports.PostService
	Connections ports.ConnectionService
	Ratings     ports.RatingService
	Chat        ports.ChatService

	Files     handler.FileStore
	UploadDir string
	Presence  handler.PresenceChecker
	Relay     http.Handler
	Checks    map[string]handler.Check

	AllowedOrigins []string
	BodyLimit      string

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if len(d.AllowedOrigins) == 0 {
		d.AllowedOrigins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	if d.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "skillx",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/ws"
		},
	}))

	// --- Dependencies ---
	userHandler := handler.NewUserHandler(d.Users, d.Files)
	postHandler := handler.NewPostHandler(d.Posts, d.Files)
	connectionHandler := handler.NewConnectionHandler(d.Connections)
	ratingHandler := handler.NewRatingHandler(d.Ratings)
	chatHandler := handler.NewChatHandler(d.Chat, d.Presence)

	// --- REST routes ---
	g := e.Group("/api")

	g.POST("/users/register", userHandler.Register)
	g.POST("/users/login", userHandler.Login)
	g.GET("/users/:id", userHandler.Get)

	g.POST("/users/:userId/posts", postHandler.Create)
	g.GET("/posts", postHandler.List)

	g.POST("/users/:userId/connect", connectionHandler.Connect)
	g.POST("/users/:userId/disconnect", connectionHandler.Disconnect)
	g.GET("/users/:userId/connections", connectionHandler.List)

	g.POST("/users/:userId/rate", ratingHandler.Rate)
	g.GET("/users/:userId/rating", ratingHandler.Get)

	g.GET("/users/:userId/presence", chatHandler.Presence)
	g.GET("/chat-history", chatHandler.History)
	g.GET("/messages/recipient", chatHandler.ForRecipient)
	g.GET("/chat-users", chatHandler.ChatUsers)

	// Paths served by earlier web clients.
	g.POST("/register", userHandler.Register)
	g.POST("/login", userHandler.Login)
	g.GET("/user/:id", userHandler.Get)
	g.POST("/users/posts", postHandler.Create)

	// --- Real-time relay ---
	if d.Relay != nil {
		e.GET("/ws", echo.WrapHandler(d.Relay))
	}

	// --- Static uploads ---
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	// --- Ops ---
	e.GET("/health", handler.NewHealthHandler().Liveness)                  // liveness  – is the process alive?
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

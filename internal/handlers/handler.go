package handlers

import (
	"time"

	"catalog_api/internal/logger"
	"catalog_api/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options are the HTTP-level settings the handler needs from configuration.
type Options struct {
	CookieName     string
	CookieSecure   bool
	SessionTTL     time.Duration
	AllowedOrigins []string
	StaticDir      string
}

const (
	defaultCookieName = "sid"
	corsMaxAge        = 12 * time.Hour
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = service.DefaultSessionTTL
	}
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)
	if len(h.opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     h.opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           corsMaxAge,
		}))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api", h.sessionMiddleware)
	{
		api.GET("/health", h.health)
		h.registerAuthRoutes(api)
		h.registerItemRoutes(api)
		// Live catalog feed (HTTP upgrade) on the same port
		api.GET("/ws/items", h.wsItems)
	}

	// API 404s as JSON, everything else from the SPA directory
	router.NoRoute(h.noRoute)

	return router
}

func (h *Handler) registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/logout", h.logout)
		auth.GET("/me", h.me)
	}
}

func (h *Handler) registerItemRoutes(api *gin.RouterGroup) {
	items := api.Group("/items")
	{
		items.GET("", h.listItems)
		items.GET("/:id", h.getItem)
		items.POST("", h.requireAuth, h.createItem)
		items.PUT("/:id", h.requireAuth, h.updateItem)
		items.DELETE("/:id", h.requireAuth, h.deleteItem)
	}
}

package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "catalog_api/docs"
	"catalog_api/internal/config"
	"catalog_api/internal/handlers"
	"catalog_api/internal/logger"
	"catalog_api/internal/repository"
	"catalog_api/internal/repository/db"
	"catalog_api/internal/server"
	"catalog_api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	shutdownTimeout = 10 * time.Second
	redisPingWait   = 5 * time.Second
)

// @title        Catalog API
// @version      1.0
// @description  Session-authenticated product catalog with owner/admin write permissions.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger level is not known yet
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error loading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()
	log.Infow("config loaded", "config", cfg.String())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// open stores
	sqlDB, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	rdb, err := openRedis(cfg)
	if err != nil {
		log.Fatalw("failed to connect to redis", "err", err, "addr", cfg.Redis.Addr)
	}
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Errorw("failed to close redis", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB, rdb)
	services := service.NewService(repos, service.NewBcryptVerifier(bcrypt.DefaultCost), service.AuthConfig{
		Secret:     []byte(cfg.Session.Secret),
		SessionTTL: cfg.Session.TTL,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		CookieName:     cfg.Session.CookieName,
		CookieSecure:   cfg.IsProduction(),
		SessionTTL:     cfg.Session.TTL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
	})

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// openDB initializes the SQLite catalog using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DB.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "catalog.db")
		path = "catalog.db"
	}
	return db.InitDB(path)
}

// openRedis connects the session store and fails fast when it is unreachable.
func openRedis(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), redisPingWait)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("server listening", "addr", server.NormalizeAddr(port))
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yoladmin/client"
	"yoladmin/internal/api"
	"yoladmin/internal/config"
	"yoladmin/internal/devapi"
	"yoladmin/internal/metrics"
	"yoladmin/internal/middleware"
	"yoladmin/internal/repository"
	"yoladmin/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var devMode = flag.Bool("dev", false, "Serve the in-process backend and point the console at it")

func main() {
	flag.Parse()

	// 1. Load Configuration
	cfg := config.Load()
	if *devMode {
		cfg.Dev.Enabled = true
	}

	// Initialize logger
	logger.InitLogger(cfg.Server.Environment, cfg.Server.LogLevel)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("application startup failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// 2. Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Optional in-process backend
	apiURL := cfg.API.URL
	if cfg.Dev.Enabled {
		devSrv, url, err := startDevAPI(cfg.Dev)
		if err != nil {
			return err
		}
		defer devSrv.Close()
		apiURL = url
	}

	// 4. Redis serves the session backend and the write limiter when configured
	var rdb *redis.Client
	if cfg.Session.Backend == config.SessionRedis || cfg.Redis.Addr != "" {
		var err error
		rdb, err = initRedis(cfg.Redis)
		if err != nil {
			if cfg.Session.Backend == config.SessionRedis {
				return err
			}
			logger.Warn("redis unavailable, rate limiting locally", zap.Error(err))
			rdb = nil
		}
	}
	if rdb != nil {
		defer rdb.Close()
	}

	storage, err := initStorage(cfg, rdb)
	if err != nil {
		return err
	}

	// 5. API client
	observer := metrics.NewPrometheusObserver()
	opts := client.Options{
		BaseURL:           apiURL,
		Timeout:           cfg.API.Timeout,
		Storage:           storage,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Observer:          observer,
		OnUnauthenticated: func() {
			observer.SetSessionActive(false)
			logger.Warn("operator session ended, login required")
		},
	}
	if cfg.API.Breaker {
		settings := client.DefaultBreakerSettings("backend")
		opts.Breaker = &settings
	}
	cli, err := client.New(ctx, opts)
	if err != nil {
		return err
	}
	observer.SetSessionActive(cli.IsAuthenticated())

	// 6. Setup HTTP Server
	r := api.RegisterRoutes(api.RouterConfig{
		Client:       cli,
		Preferences:  client.NewPreferences(storage),
		Observer:     observer,
		RateLimiter:  middleware.NewRateLimiter(rdb, cfg.RateLimit.RequestsPerSecond),
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 7. Start Server
	go func() {
		logger.Info("console starting",
			zap.String("addr", srv.Addr),
			zap.String("backend", cli.BaseURL()),
			zap.String("session", cfg.Session.Backend),
			zap.String("env", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen failed", zap.Error(err))
		}
	}()

	// 8. Graceful Shutdown Signal Wait
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down console...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("console exited properly")
	return nil
}

// -- Infrastructure Initializers --

func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

func initDB(cfg config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}
	return db, nil
}

func initStorage(cfg *config.Config, rdb *redis.Client) (client.Storage, error) {
	switch cfg.Session.Backend {
	case config.SessionMemory:
		return client.NewMemoryStorage(), nil
	case config.SessionFile:
		return client.NewFileStorage(cfg.Session.File), nil
	case config.SessionRedis:
		return repository.NewRedisStorage(rdb, cfg.Session.Namespace), nil
	case config.SessionMySQL:
		db, err := initDB(cfg.MySQL)
		if err != nil {
			return nil, err
		}
		s := repository.NewSQLStorage(db, cfg.Session.Namespace)
		if err := s.Migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

// startDevAPI serves the in-process backend on dev.port.
func startDevAPI(cfg config.DevConfig) (*http.Server, string, error) {
	opts := devapi.DefaultOptions()
	opts.Username, opts.Password = cfg.Username, cfg.Password
	opts.SigningKey = []byte(cfg.SigningKey)

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return nil, "", fmt.Errorf("dev backend listen: %w", err)
	}
	srv := &http.Server{Handler: devapi.New(opts).Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("dev backend stopped", zap.Error(err))
		}
	}()
	url := fmt.Sprintf("http://127.0.0.1:%d/api", ln.Addr().(*net.TCPAddr).Port)
	logger.Info("dev backend listening", zap.String("url", url), zap.String("username", cfg.Username))
	return srv, url, nil
}

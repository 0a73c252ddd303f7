package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	_ "github.com/taskloop/todo-api/docs" // Swagger docs (generated)
	"github.com/taskloop/todo-api/internal/auth"
	"github.com/taskloop/todo-api/internal/config"
	"github.com/taskloop/todo-api/internal/database"
	httpServer "github.com/taskloop/todo-api/internal/http"
	"github.com/taskloop/todo-api/internal/logging"
	"github.com/taskloop/todo-api/internal/ratelimit"
	"github.com/taskloop/todo-api/internal/todo"
	"github.com/taskloop/todo-api/internal/user"
)

// @title           Todo API
// @version         1.0
// @description     A multi-user todo list REST backend with bearer-token authentication.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey SessionToken
// @in header
// @name x-auth
// @description Session token issued on register/login.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Repositories
	userRepo := user.NewRepository(db)
	todoRepo := todo.NewRepository(db)
	sessionRepo := auth.NewRedisSessionRepository(redisClient)

	rateLimiter := ratelimit.NewLimiter(redisClient)

	// Token codec; the signing key is read-only after startup
	codec, err := auth.NewCodec(cfg.Auth.TokenKey)
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}

	// Services
	authService := auth.NewService(userRepo, sessionRepo, codec, logger)
	todoService := todo.NewService(todoRepo)

	// HTTP handlers
	authHandler := auth.NewHandler(authService, rateLimiter, logger)
	todoHandler := todo.NewHandler(todoService, logger)
	authMiddleware := auth.NewMiddleware(authService)

	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, todoHandler, logger)

	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

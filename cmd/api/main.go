// cmd/api/main.go
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"expense-tracker/internal/aiclient"
	"expense-tracker/internal/analytics"
	"expense-tracker/internal/auth"
	"expense-tracker/internal/config"
	"expense-tracker/internal/handler"
	"expense-tracker/internal/middleware"
	"expense-tracker/internal/service"
	"expense-tracker/internal/storage"
	"expense-tracker/internal/storage/memory"
	"expense-tracker/internal/storage/postgres"
	"expense-tracker/internal/storage/sqlite"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-retry"
)

type combinedStorage interface {
	storage.ExpenseStorage
	storage.UserStorage
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	store, cleanup, err := openStorage(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err, "driver", cfg.DBDriver)
		os.Exit(1)
	}
	defer cleanup()

	expenseService := service.NewExpenseService(store)
	authService := service.NewAuthService(store)
	cache := analytics.NewCache(store)
	aiClient := aiclient.New(aiclient.Config{
		APIKey:         cfg.AIAPIKey,
		BaseURL:        cfg.AIAPIURL,
		ConnectTimeout: time.Duration(cfg.AIConnectTimeoutSec) * time.Second,
		ReadTimeout:    time.Duration(cfg.AIReadTimeoutSec) * time.Second,
	})

	tokenService := auth.NewTokenService(cfg)

	expenseHandler := handler.NewExpenseHandler(expenseService)
	authHandler := handler.NewAuthHandler(authService, tokenService)
	aiHandler := handler.NewAIHandler(expenseService, cache, aiClient)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/allUsers", authHandler.AllUsers)
		authGroup.DELETE("/delete/:id", authHandler.Delete)
	}

	expenses := router.Group("/api/expenses")
	ai := router.Group("/api/ai")
	if cfg.RequireAuth {
		authMiddleware := middleware.NewAuthMiddleware(tokenService)
		expenses.Use(authMiddleware.RequireAuth())
		ai.Use(authMiddleware.RequireAuth())
	}
	{
		expenses.GET("", expenseHandler.GetAll)
		expenses.GET("/total", expenseHandler.TotalAll)
		expenses.GET("/total/:category", expenseHandler.TotalByCategory)
		expenses.GET("/:id", expenseHandler.GetByID)
		expenses.POST("", expenseHandler.Create)
		expenses.POST("/bulk", expenseHandler.CreateBulk)
		expenses.PUT("/:id", expenseHandler.Update)
		expenses.DELETE("/:id", expenseHandler.Delete)
	}
	{
		ai.POST("/quickInsight", aiHandler.QuickInsight)
		ai.POST("/aiInsight", aiHandler.AIInsight)
		ai.POST("/refreshCache", aiHandler.RefreshCache)
		ai.GET("/analytics", aiHandler.Analytics)
	}

	slog.Info("Server starting", "port", cfg.ServerPort, "driver", cfg.DBDriver, "require_auth", cfg.RequireAuth)
	if err := router.Run(cfg.ServerPort); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

// openStorage picks the backend by driver. Postgres connectivity is verified
// with a bounded retry so the API survives a database that is still booting.
func openStorage(cfg config.Config) (combinedStorage, func(), error) {
	switch cfg.DBDriver {
	case "postgres":
		pool, err := pgxpool.New(context.Background(), cfg.DBConn)
		if err != nil {
			return nil, nil, err
		}
		backoff := retry.WithMaxRetries(5, retry.NewExponential(time.Second))
		err = retry.Do(context.Background(), backoff, func(ctx context.Context) error {
			if err := pool.Ping(ctx); err != nil {
				slog.Warn("Database not ready, retrying", "error", err)
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewStorage(pool), pool.Close, nil
	case "sqlite":
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return memory.New(), func() {}, nil
	}
}

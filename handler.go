package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies (db pool, config) for all route handlers.
type Handler struct {
	db            *pgxpool.Pool
	jwtSecret     []byte
	tokenTTL      time.Duration
	openAIBaseURL string           // Base URL for OpenAI API (overridable for tests)
	now           func() time.Time // Clock for "today" defaults (overridable for tests)
}

func newHandler(pool *pgxpool.Pool, cfg config) *Handler {
	return &Handler{
		db:            pool,
		jwtSecret:     cfg.JWTSecret,
		tokenTTL:      cfg.TokenTTL,
		openAIBaseURL: cfg.OpenAIBaseURL,
		now:           time.Now,
	}
}

// today returns the current calendar date in UTC.
func (h *Handler) today() time.Time {
	now := time.Now
	if h.now != nil {
		now = h.now
	}
	y, m, d := now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the helpers below
// work inside and outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](q querier, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](q querier, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// inTx runs fn inside a transaction, committing on success and rolling back on
// any error (including a failed commit).
func (h *Handler) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := h.db.Begin(ctx)
	if err != nil {
		log.Printf("[inTx] Begin error: %v", err)
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// parseIDParam reads a UUID path parameter. An unparseable id can never match
// a row, so callers answer 404 rather than 400.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func getDBPool(dbURL string) *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())

	api.GET("/catalog", h.listCatalogItems)
	api.POST("/catalog", h.createCatalogItem)
	api.POST("/catalog/suggest", h.suggestCatalogItem)
	api.GET("/catalog/:id", h.getCatalogItem)
	api.PUT("/catalog/:id", h.updateCatalogItem)
	api.DELETE("/catalog/:id", h.deleteCatalogItem)

	api.GET("/meals", h.listMeals)
	api.POST("/meals", h.createMeal)
	api.GET("/meals/:id", h.getMeal)
	api.PUT("/meals/:id", h.updateMeal)
	api.DELETE("/meals/:id", h.deleteMeal)

	api.GET("/food-log/daily", h.getDailySummary)
	api.GET("/food-log/month", h.getMonthSummary)
	api.GET("/food-log/earliest-date", h.getEarliestLogDate)
	api.POST("/food-log/items", h.createLogEntry)
	api.DELETE("/food-log/items/:id", h.deleteLogEntry)

	api.GET("/settings/goals", h.getGoals)
	api.PUT("/settings/goals", h.putGoals)
	api.GET("/settings/goals/recommended", h.getRecommendedGoals)
	api.GET("/settings/profile", h.getProfile)
	api.PUT("/settings/profile", h.putProfile)
	api.GET("/settings/preferences", h.getPreferences)
	api.PUT("/settings/preferences", h.putPreferences)
}

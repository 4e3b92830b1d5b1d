// CLI tool to apply the embedded SQL migrations in db/ with goose.
// goose tracks applied versions in its own goose_db_version table, and each
// migration file runs in its own transaction.
// Usage: go run ./cmd/migrate [up|down|status|version] (default: up)
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"lg/nutrilog-api/db"
)

func main() {
	// A missing .env is fine when DB_URL comes from the environment.
	if err := godotenv.Load(); err != nil && os.Getenv("DB_URL") == "" {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	conn, err := sql.Open("pgx", os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to open database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	goose.SetBaseFS(db.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting dialect: %v\n", err)
		os.Exit(1)
	}

	if err := goose.RunContext(context.Background(), command, conn, "."); err != nil {
		fmt.Fprintf(os.Stderr, "Error running migrate %s: %v\n", command, err)
		os.Exit(1)
	}
}

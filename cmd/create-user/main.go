// CLI tool to create a user with a bcrypt-hashed password, default nutrition
// goals and app preferences, and an optional starting profile.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"lg/nutrilog-api/internal/nutrition"
)

func main() {
	if err := godotenv.Load(); err != nil && os.Getenv("DB_URL") == "" {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		s, _ := reader.ReadString('\n')
		return strings.TrimSpace(s)
	}

	username := prompt("Username: ")
	email := prompt("Email: ")
	password := prompt("Password: ")
	if username == "" || email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Username, email, and password are required")
		os.Exit(1)
	}

	units := nutrition.UnitSystem(strings.ToLower(prompt("Units [metric/imperial] (default metric): ")))
	if units == "" {
		units = nutrition.Metric
	}
	if !units.Valid() {
		fmt.Fprintf(os.Stderr, "Unknown unit system %q\n", units)
		os.Exit(1)
	}

	// Optional starting measurements; blank skips.
	var weightKG, heightCM *float64
	if s := prompt(fmt.Sprintf("Weight in %s (blank to skip): ", map[nutrition.UnitSystem]string{nutrition.Metric: "kg", nutrition.Imperial: "lb"}[units])); s != "" {
		kg, ok := nutrition.ParseWeight(s, units)
		if !ok {
			fmt.Fprintf(os.Stderr, "Invalid weight %q\n", s)
			os.Exit(1)
		}
		weightKG = &kg
	}
	if units == nutrition.Imperial {
		ft, in := prompt("Height feet (blank to skip): "), ""
		if ft != "" {
			in = prompt("Height inches: ")
			cm, ok := nutrition.ParseHeight(ft, in)
			if !ok || cm <= 0 {
				fmt.Fprintf(os.Stderr, "Invalid height %s ft %s in\n", ft, in)
				os.Exit(1)
			}
			heightCM = &cm
		}
	} else if s := prompt("Height in cm (blank to skip): "); s != "" {
		cm, err := strconv.ParseFloat(s, 64)
		if err != nil || cm <= 0 {
			fmt.Fprintf(os.Stderr, "Invalid height %q\n", s)
			os.Exit(1)
		}
		heightCM = &cm
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting transaction: %v\n", err)
		os.Exit(1)
	}
	defer tx.Rollback(ctx)

	var userID int
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, email, password)
		 VALUES ($1, $2, $3) RETURNING id`,
		username, email, string(hash),
	).Scan(&userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	steps := []struct {
		what string
		sql  string
		args []any
	}{
		{"nutrition goals", `INSERT INTO user_nutrition_goals (user_id) VALUES ($1)`, []any{userID}},
		{"app preferences", `INSERT INTO user_app_preferences (user_id, unit_system) VALUES ($1, $2)`, []any{userID, string(units)}},
		{"profile", `INSERT INTO user_profiles (user_id, weight_kg, height_cm) VALUES ($1, $2, $3)`, []any{userID, weightKG, heightCM}},
	}
	for _, s := range steps {
		if _, err := tx.Exec(ctx, s.sql, s.args...); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", s.what, err)
			os.Exit(1)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error committing: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:       %d\n", userID)
	fmt.Printf("  Username: %s\n", username)
	if weightKG != nil {
		fmt.Printf("  Weight:   %s\n", nutrition.FormatWeight(*weightKG, units))
	}
	if heightCM != nil {
		fmt.Printf("  Height:   %s\n", nutrition.FormatHeight(*heightCM, units))
	}
	fmt.Println("Log in with POST /api/login to get a token.")
}

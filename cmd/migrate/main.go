// Command migrate applies or rolls back the database schema.
//
//	migrate up
//	migrate down [steps]
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/nekogravitycat/coworking-booking-backend/internal/db"
	"github.com/nekogravitycat/coworking-booking-backend/internal/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), "text")

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	if err := run(os.Args[1:], os.Getenv("DB_DSN")); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate up | down [steps]")
	}

	switch args[0] {
	case "up":
		if err := db.Migrate(dsn); err != nil {
			return err
		}
		slog.Info("migrations applied")
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid steps %q", args[1])
			}
			steps = n
		}
		if err := db.Rollback(dsn, steps); err != nil {
			return err
		}
		slog.Info("migrations rolled back", "steps", steps)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

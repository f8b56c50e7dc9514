package main

import (
	"context"
	"flag"
	"os"
	"time"

	"conversor/adapters/postgres"
	"conversor/internal/logger"
	"conversor/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	purge := flag.Bool("purge", false, "Delete expired conversion results after migrating")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Debugf("[Migrate] No .env file found, using system environment variables")
	}

	databaseURL := flag.Arg(0)
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		logger.Errorf("Usage: migrate [-purge] <database_url> (or set DATABASE_URL)")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		logger.Errorf("[Migrate] Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		logger.Errorf("[Migrate] %v", err)
		os.Exit(1)
	}

	if *purge {
		n, err := postgres.NewResultRepository(db, 0).Purge(ctx, time.Now())
		if err != nil {
			logger.Errorf("[Migrate] %v", err)
			os.Exit(1)
		}
		logger.Infof("[Migrate] Purged %d expired results", n)
	}
}

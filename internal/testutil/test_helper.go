// Package testutil wires a disposable PostgreSQL schema for tests.
package testutil

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/johndosdos/campus-connect/internal/database"
)

func ProjectRoot() string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(file), "../../")
	return root
}

// DbInit connects to TEST_DB_URL and migrates a clean schema. The calling
// test is skipped when TEST_DB_URL is not set.
func DbInit(t testing.TB) *pgxpool.Pool {
	t.Helper()

	if err := godotenv.Load(filepath.Join(ProjectRoot(), ".env")); err != nil {
		log.Printf("failed to load .env file: %+v", err)
	}

	testURL := os.Getenv("TEST_DB_URL")
	if testURL == "" {
		t.Skip("TEST_DB_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbPool, err := pgxpool.New(ctx, testURL)
	if err != nil {
		t.Fatalf("could not connect to the postgresql database: %v", err)
	}

	if err := database.Reset(ctx, dbPool); err != nil {
		dbPool.Close()
		t.Fatalf("database.Reset() error = %+v", err)
	}
	if err := database.Migrate(ctx, dbPool); err != nil {
		dbPool.Close()
		t.Fatalf("database.Migrate() error = %+v", err)
	}

	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := database.Reset(cleanupCtx, dbPool); err != nil {
			t.Logf("database.Reset() error = %+v", err)
		}
		dbPool.Close()
	})

	return dbPool
}

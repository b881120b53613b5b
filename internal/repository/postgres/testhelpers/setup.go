package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// TestDB represents a test database connection
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// LocationsSchema mirrors the Supabase "Locations" table
const LocationsSchema = `
CREATE TABLE IF NOT EXISTS "Locations" (
	"id"            BIGSERIAL PRIMARY KEY,
	"Location_Name" TEXT,
	"Country"       TEXT,
	"Address"       TEXT,
	"URL"           TEXT,
	"Latitude"      DOUBLE PRECISION,
	"Longitude"     DOUBLE PRECISION,
	"created_at"    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// SetupTestDB connects to the test database, skipping the test when it is unreachable
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	host := getEnv("TEST_DB_HOST", "localhost")
	port := getEnv("TEST_DB_PORT", "5433")
	user := getEnv("TEST_DB_USER", "postgres")
	password := getEnv("TEST_DB_PASSWORD", "postgres")
	dbname := getEnv("TEST_DB_NAME", "location_map_test")
	sslmode := getEnv("TEST_DB_SSLMODE", "disable")

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	// Retry connection with exponential backoff to wait for DB recovery
	var db *sqlx.DB
	var err error
	maxRetries := 3
	retryDelay := 200 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			t.Logf("Database not ready (attempt %d/%d), waiting %v...", i+1, maxRetries, retryDelay)
			time.Sleep(retryDelay)
			retryDelay *= 2
		}
	}

	if err != nil {
		t.Skipf("PostgreSQL not available for integration tests: %v", err)
	}

	if _, err := db.Exec(LocationsSchema); err != nil {
		db.Close()
		t.Fatalf("Failed to create Locations table: %v", err)
	}

	return &TestDB{
		DB:     db,
		Logger: zap.NewNop(),
	}
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// Cleanup truncates the Locations table
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	_, err := tdb.DB.ExecContext(ctx, `TRUNCATE TABLE "Locations" RESTART IDENTITY`)
	return err
}

// SeedLocation inserts a row and returns its id. Nil pointers become NULL.
func (tdb *TestDB) SeedLocation(ctx context.Context, name, address, url *string, lat, lon *float64) (int64, error) {
	var id int64
	err := tdb.DB.QueryRowxContext(ctx,
		`INSERT INTO "Locations" ("Location_Name", "Address", "URL", "Latitude", "Longitude")
		 VALUES ($1, $2, $3, $4, $5) RETURNING "id"`,
		name, address, url, lat, lon,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("seed location: %w", err)
	}
	return id, nil
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

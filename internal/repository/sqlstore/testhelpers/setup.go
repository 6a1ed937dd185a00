package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/stop-registry/internal/repository/sqlstore"
)

// TestDB represents a test database connection
type TestDB struct {
	DB     *sqlx.DB
	Store  *sqlstore.DB
	Logger *zap.Logger
}

// SetupSQLite открывает изолированную SQLite базу в памяти с примененными миграциями
func SetupSQLite(t *testing.T) *TestDB {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	// каждое соединение :memory: - отдельная база
	db.SetMaxOpenConns(1)

	return newTestDB(t, db)
}

// SetupPostgres initializes a PostgreSQL test database connection.
// The test is skipped when TEST_DB_HOST is unset or the server is unreachable.
func SetupPostgres(t *testing.T) *TestDB {
	t.Helper()

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping PostgreSQL integration test")
	}

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		getEnv("TEST_DB_PORT", "5432"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "stops_test"),
		getEnv("TEST_DB_SSLMODE", "disable"),
	)

	// Retry connection with exponential backoff to wait for DB startup
	var db *sqlx.DB
	var err error
	maxRetries := 5
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
		t.Skipf("PostgreSQL unavailable after %d attempts: %v", maxRetries, err)
	}

	tdb := newTestDB(t, db)
	if err := tdb.Cleanup(context.Background()); err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}
	return tdb
}

func newTestDB(t *testing.T, db *sqlx.DB) *TestDB {
	logger := zaptest.NewLogger(t)
	store := sqlstore.NewDBForTest(db, logger)

	if err := store.Migrate(context.Background()); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDB{
		DB:     db,
		Store:  store,
		Logger: logger,
	}
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// Cleanup удаляет все остановки
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	_, err := tdb.DB.ExecContext(ctx, "DELETE FROM stops")
	return err
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

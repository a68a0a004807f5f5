// Package integration runs the repositories and services against a real
// PostgreSQL started with testcontainers. The tests are skipped with -short.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taponce/backend/internal/infrastructure/migration"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const postgresImage = "postgres:16-alpine"

var (
	// Shared container for all tests in a package
	sharedContainer    testcontainers.Container
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

// TestDB represents a test database connection
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// skipShort skips container-backed tests in -short runs
func skipShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
}

func runContainer(ctx context.Context, dbName string) (testcontainers.Container, string, error) {
	container, err := tcpostgres.Run(ctx,
		postgresImage,
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("taponce"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, "", err
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", err
	}
	return container, dsn, nil
}

// NewTestDB creates a fresh PostgreSQL container with the schema applied.
// Each call pays a container start, so use it when a test needs isolation.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	skipShort(t)

	container, dsn, err := runContainer(context.Background(), "taponce_test")
	require.NoError(t, err, "Failed to start PostgreSQL container")

	db, sqlDB := connectToDatabase(t, dsn)
	runMigrations(t, sqlDB)

	testDB := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Container: container,
		DSN:       dsn,
		t:         t,
	}
	t.Cleanup(testDB.Close)
	return testDB
}

// NewSharedTestDB returns a connection to one container shared by the
// package. Tests must call CleanTables or use distinct data.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()
	skipShort(t)

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer == nil {
		container, dsn, err := runContainer(context.Background(), "taponce_shared_test")
		require.NoError(t, err, "Failed to start shared PostgreSQL container")

		sharedContainer = container
		sharedContainerDSN = dsn

		_, sqlDB := connectToDatabase(t, dsn)
		runMigrations(t, sqlDB)
		_ = sqlDB.Close()
	}

	db, sqlDB := connectToDatabase(t, sharedContainerDSN)
	testDB := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Container: sharedContainer,
		DSN:       sharedContainerDSN,
		t:         t,
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return testDB
}

// Close closes the database connection and terminates a private container
func (tdb *TestDB) Close() {
	if tdb.SqlDB != nil {
		_ = tdb.SqlDB.Close()
	}
	if tdb.Container != nil && tdb.Container != sharedContainer {
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("Warning: Failed to terminate container: %v", err)
		}
	}
}

// CleanTables truncates every application table
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			tdb.t.Logf("Warning: Failed to truncate table %s: %v", table, err)
		}
	}
}

// connectToDatabase establishes a GORM connection to the database
func connectToDatabase(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	return db, sqlDB
}

// runMigrations applies the embedded migrations, the same ones the binary ships
func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")
}

// CleanupSharedContainer terminates the shared container. Call it from TestMain.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedContainerDSN = ""
	}
}

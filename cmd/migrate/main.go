package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/taponce/backend/internal/infrastructure/config"
	"github.com/taponce/backend/internal/infrastructure/logger"
	"github.com/taponce/backend/internal/infrastructure/migration"
	"github.com/taponce/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	// Parse flags
	var (
		migrationsPath string
		logLevel       string
		fromDisk       bool
		withPolicies   bool
		seedOpts       seedOptions
	)

	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "Path to migrations directory, used by create, list and -from-disk")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&fromDisk, "from-disk", false, "Read migrations from -path instead of the embedded copy")
	flag.BoolVar(&withPolicies, "policies", false, "Include row-level-security policies in schema output")
	flag.StringVar(&seedOpts.AdminEmail, "admin-email", "admin@taponce.local", "Seed admin email")
	flag.StringVar(&seedOpts.AdminPassword, "admin-password", "", "Seed admin password (required for seed)")
	flag.IntVar(&seedOpts.Agents, "agents", 5, "Number of demo agents to seed")
	flag.Int64Var(&seedOpts.Seed, "seed", 42, "Random seed for demo data")
	flag.Parse()

	// Get command and arguments
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to get absolute path", zap.Error(err))
	}
	migrationsPath = absPath

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
	)

	// Commands that don't need a database connection
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name>")
		}
		mf, err := migration.CreateMigration(migrationsPath, args[1])
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created successfully",
			zap.Int("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return

	case "list":
		migrations, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		if len(migrations) == 0 {
			log.Info("No migrations found")
			return
		}
		log.Info("Available migrations", zap.Int("count", len(migrations)))
		for _, m := range migrations {
			fmt.Println("  -", m)
		}
		return

	case "schema":
		schema, err := migration.SchemaSQL(withPolicies)
		if err != nil {
			log.Fatal("Failed to render schema", zap.Error(err))
		}
		fmt.Print(schema)
		return
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if command == "seed" {
		db, err := persistence.NewDatabase(&cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			_ = db.Close()
		}()
		if err := seed(db.DB, seedOpts, log); err != nil {
			log.Fatal("Seed failed", zap.Error(err))
		}
		return
	}

	// Commands that need a raw database connection
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if fromDisk {
		m, err = migration.NewWithSource(db, os.DirFS(migrationsPath), log)
	} else {
		m, err = migration.New(db, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	// Execute command
	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
		} else {
			log.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		log.Warn("Forcing migration version - use with caution!")
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`TapOnce Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  create <name>         Create a new migration file pair
  list                  List migration files under -path
  schema                Print the full schema SQL (add -policies for RLS)
  seed                  Insert an admin, the starter catalog and demo agents

Flags:
  -path string            Path to migrations directory (default: ./migrations)
  -from-disk              Apply migrations from -path instead of the embedded copy
  -policies               Include row-level-security policies in schema output
  -admin-email string     Seed admin email
  -admin-password string  Seed admin password
  -agents int             Number of demo agents to seed (default: 5)
  -seed int               Random seed for demo data (default: 42)
  -log-level string       Log level: debug, info, warn, error (default: info)

Environment Variables:
  TAPONCE_DATABASE_HOST, TAPONCE_DATABASE_PORT, TAPONCE_DATABASE_USER,
  TAPONCE_DATABASE_PASSWORD, TAPONCE_DATABASE_DBNAME, TAPONCE_DATABASE_SSLMODE

Examples:
  # Apply all pending migrations
  migrate up

  # Roll back the last migration
  migrate step -1

  # Paste-ready schema for a hosted database console
  migrate -policies schema > schema.sql

  # Local demo data
  migrate -admin-password=change-me -agents=10 seed`)
}

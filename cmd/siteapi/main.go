package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"centro-site/api/internal/config"
	"centro-site/api/internal/content"
	"centro-site/api/internal/database"
	"centro-site/api/internal/database/migrations"
	importcontent "centro-site/api/internal/import"
	"centro-site/api/internal/models"
	"centro-site/api/internal/server"
	"centro-site/api/internal/server/storage"
)

const usage = `Usage: siteapi [command] [options]
Commands: import, migrate, server

For command-specific options, use: siteapi [command] -h`

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// commonFlags registers the database and log flags every command shares.
func commonFlags(fs *flag.FlagSet, cfg *config.Config, logLevel *string) {
	fs.StringVar(&cfg.DBDriver, "driver", config.GetEnvString("SITE_DB_DRIVER", config.DefaultDBDriver),
		"Database driver: sqlite3 or postgres (env: SITE_DB_DRIVER)")
	fs.StringVar(&cfg.DBDSN, "db", config.GetEnvString("SITE_DB_DSN", config.DefaultDBDSN),
		"SQLite file path or PostgreSQL URL (env: SITE_DB_DSN)")
	fs.StringVar(logLevel, "log-level", config.GetEnvString("SITE_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: SITE_LOG_LEVEL)")
}

func main() {
	cfg := config.DefaultConfig()
	var logLevelStr string

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	commonFlags(importCmd, cfg, &logLevelStr)
	importCmd.StringVar(&cfg.CSVPath, "csv", config.GetEnvString("SITE_CSV_PATH", config.DefaultCSVPath),
		"Path or http(s) URL of the content CSV (env: SITE_CSV_PATH)")

	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	commonFlags(migrateCmd, cfg, &logLevelStr)
	var rollback int
	migrateCmd.IntVar(&rollback, "down", 0, "Roll back the given number of migrations instead of applying")

	serverCmd := flag.NewFlagSet("server", flag.ExitOnError)
	commonFlags(serverCmd, cfg, &logLevelStr)
	serverCmd.StringVar(&cfg.ServerHost, "host", config.GetEnvString("SITE_HOST", config.DefaultServerHost),
		"Host to bind the server to (env: SITE_HOST)")
	serverCmd.IntVar(&cfg.ServerPort, "port", config.GetEnvInt("SITE_PORT", config.DefaultServerPort),
		"Port to listen on (env: SITE_PORT)")

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	var (
		fs  *flag.FlagSet
		run func(*config.Config) error
	)
	switch os.Args[1] {
	case "import":
		fs, run = importCmd, runImport
	case "migrate":
		fs, run = migrateCmd, func(cfg *config.Config) error { return runMigrate(cfg, rollback) }
	case "server":
		fs, run = serverCmd, runServer
	case "-h", "--help", "help":
		fmt.Println(usage)
		os.Exit(0)
	default:
		log.Error().Str("command", os.Args[1]).Msg("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}

	fs.Parse(os.Args[2:])

	if level, err := zerolog.ParseLevel(logLevelStr); err == nil {
		cfg.LogLevel = level
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		os.Exit(1)
	}
}

func openDB(cfg *config.Config, skipMigrations bool) (*database.DB, error) {
	dbCfg := database.NewConfig(cfg.DBDriver, cfg.DBDSN)
	dbCfg.SkipMigrations = skipMigrations || cfg.SkipMigrations

	db, err := database.NewDB(dbCfg)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to initialize database")
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

// runImport loads news and projects from CSV. Existing slugs are kept.
func runImport(cfg *config.Config) error {
	db, err := openDB(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	store := storage.NewStore(db)
	importer := importcontent.NewImporter(
		content.NewService(models.ContentNews, store, nil),
		content.NewService(models.ContentProject, store, nil),
	)

	summary, err := importer.ImportContent(context.Background(), cfg.CSVPath)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d rows, skipped %d duplicates\n", summary.Imported, summary.Duplicates)
	if len(summary.Errors) > 0 {
		fmt.Printf("Encountered %d errors:\n", len(summary.Errors))
		for _, e := range summary.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	return nil
}

// runMigrate applies pending migrations, or rolls back n when n > 0.
func runMigrate(cfg *config.Config, n int) error {
	db, err := openDB(cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	files, err := migrations.Load(cfg.DBDriver)
	if err != nil {
		return err
	}

	if n > 0 {
		return migrations.RollbackMigrations(db.DB, files, n)
	}
	return migrations.RunMigrations(db.DB, files)
}

// runServer starts the HTTP API server with the provided configuration.
func runServer(cfg *config.Config) error {
	log.Debug().Msg("Starting server with debug logging enabled")

	db, err := openDB(cfg, false)
	if err != nil {
		return err
	}
	defer db.Close()

	return server.RunServer(db, cfg, log.Logger)
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/sellerdesk-backend/pkg/config"
	"github.com/angelmondragon/sellerdesk-backend/pkg/db"
	"github.com/angelmondragon/sellerdesk-backend/pkg/logger"
	"github.com/angelmondragon/sellerdesk-backend/pkg/migrate"
)

type flags struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	var f flags
	flag.StringVar(&f.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate")
	flag.StringVar(&f.dir, "dir", "", "goose migrations directory (empty uses the migrations built into the binary)")
	flag.StringVar(&f.name, "name", "", "migration name (for create)")
	flag.StringVar(&f.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", f.cmd, err)
		os.Exit(1)
	}
}

func run(f flags) error {
	switch f.cmd {
	case "create":
		if f.name == "" {
			return errors.New("missing -name")
		}
		dir := f.dir
		if dir == "" {
			dir = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(dir, f.name)
		if err != nil {
			return err
		}
		fmt.Println("created migration:", path)
		return nil

	case "validate":
		err := migrate.ValidateEmbedded()
		if f.dir != "" {
			err = migrate.ValidateDir(f.dir)
		}
		if err != nil {
			return err
		}
		fmt.Println("migration validation passed")
		return nil

	case "up", "down", "status":
		return withDatabase(f, func(ctx context.Context, conn *sql.DB, dialect string) error {
			return migrate.RunDialect(ctx, conn, dialect, f.dir, f.cmd)
		})

	case "version":
		if f.version == "" {
			return errors.New("missing -version")
		}
		return withDatabase(f, func(ctx context.Context, conn *sql.DB, dialect string) error {
			return migrate.MigrateToVersion(ctx, conn, dialect, f.dir, f.version)
		})
	}
	return fmt.Errorf("unknown -cmd value %q", f.cmd)
}

// withDatabase loads config, opens the configured database and hands the raw
// connection to fn, closing it afterwards.
func withDatabase(f flags, fn func(context.Context, *sql.DB, string) error) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dialect := migrate.Dialect(cfg.DB.Driver)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"cmd":     f.cmd,
		"dir":     f.dir,
		"dialect": dialect,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	conn, err := dbClient.DB().DB()
	if err != nil {
		return err
	}
	logg.Info(ctx, "migrate ready")
	if err := fn(ctx, conn, dialect); err != nil {
		logg.Error(ctx, "migration failed", err)
		return err
	}
	return nil
}

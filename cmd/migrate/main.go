package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/internal/database"
	"github.com/pageza/porkchop/backend/internal/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate up | down [n] | version")
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	v := viper.New()
	v.SetDefault("MIGRATIONS_PATH", "./migrations")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	zapLogger, err := logger.New(logger.Config{Level: v.GetString("LOG_LEVEL"), Format: "console"})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	dsn := v.GetString("DATABASE_URL")
	if dsn == "" {
		zapLogger.Fatal("DATABASE_URL environment variable is not set")
	}

	m, err := database.NewMigrator(dsn, v.GetString("MIGRATIONS_PATH"))
	if err != nil {
		zapLogger.Fatal("failed to open migrations", zap.Error(err))
	}
	defer m.Close()

	if err := run(m, flag.Args(), zapLogger); err != nil {
		zapLogger.Fatal("migration failed", zap.Error(err))
	}
}

func run(m *migrate.Migrate, args []string, zapLogger *zap.Logger) error {
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
	case "version":
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		zapLogger.Info("no migrations applied")
		return nil
	}
	if err != nil {
		return err
	}
	zapLogger.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

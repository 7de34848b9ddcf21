package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
)

const (
	databaseFlag   = "database"
	migrationsFlag = "migrations"
)

func main() {
	database, migrations := getFlagsValues()
	validateFlags(database, migrations)
	makeMigrations(database, migrations)
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(fmt.Sprintf(format, v...))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() (database, migrations string) {
	databaseArg := pflag.StringP(databaseFlag, "d", "", "database dsn")
	migrationsArg := pflag.StringP(migrationsFlag, "m", "", "migrations dir")
	pflag.Parse()
	return *databaseArg, *migrationsArg
}

func validateFlags(database, migrations string) {
	var errs []error

	if database == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", databaseFlag))
	}

	if migrations == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", migrationsFlag))
	}

	if len(errs) != 0 {
		slog.Error("too few args", "err", errors.Join(errs...))
		fallDown()
	}
}

func makeMigrations(database, migrations string) {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrations),
		fmt.Sprintf("pgx5://%s", database),
	)
	if err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}

	m.Log = NewMigrationLogger()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
	m.Log.Printf("migration applied\n")
}

func fallDown() {
	os.Exit(2)
}

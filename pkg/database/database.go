/*
Package database opens the relational store and applies the embedded
migration scripts.
*/
package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	_ "github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	//go:embed sql-migrations
	sqlMigrationsFs embed.FS

	registerBinds sync.Once
)

/*
Connect opens a database for the given driver. Supported drivers are
"sqlite" and "postgres".
*/
func Connect(driver, dsn string) (*sqlz.DB, error) {
	var (
		err error
		db  *sqlz.DB
	)

	switch driver {
	case DriverSqlite:
		registerBinds.Do(func() {
			binds.Register(DriverSqlite, binds.BindByDriver("sqlite3"))
		})

	case DriverPostgres:

	default:
		return nil, fmt.Errorf("unsupported database driver '%s'", driver)
	}

	if db, err = sqlz.Connect(driver, dsn); err != nil {
		return nil, fmt.Errorf("error connecting to %s database: %w", driver, err)
	}

	return db, nil
}

/*
Migrate runs every script for the driver whose name starts with "commit", in
name order. Each driver has its own script directory because column types
such as auto-assigned keys differ. Errors reporting an already applied
column change are ignored.
*/
func Migrate(db *sqlz.DB, driver string) error {
	var (
		err     error
		scripts []string
		b       []byte
	)

	if scripts, err = MigrationScripts(driver); err != nil {
		return err
	}

	for _, script := range scripts {
		if b, err = fs.ReadFile(sqlMigrationsFs, script); err != nil {
			return fmt.Errorf("error reading migration '%s': %w", script, err)
		}

		if err = runSqlScript(db, b); err != nil {
			if !isIgnorableError(err) {
				return fmt.Errorf("error running migration '%s': %w", script, err)
			}
		}

		slog.Debug("migration applied", "driver", driver, "script", script)
	}

	return nil
}

// MigrationScripts lists the embedded scripts Migrate runs for a driver.
func MigrationScripts(driver string) ([]string, error) {
	var (
		err  error
		dirs []fs.DirEntry
	)

	switch driver {
	case DriverSqlite, DriverPostgres:

	default:
		return nil, fmt.Errorf("no migrations for database driver '%s'", driver)
	}

	dir := path.Join("sql-migrations", driver)

	if dirs, err = sqlMigrationsFs.ReadDir(dir); err != nil {
		return nil, fmt.Errorf("error reading migrations: %w", err)
	}

	result := []string{}

	for _, d := range dirs {
		if d.IsDir() || !strings.HasPrefix(d.Name(), "commit") {
			continue
		}

		result = append(result, path.Join(dir, d.Name()))
	}

	return result, nil
}

func runSqlScript(db *sqlz.DB, script []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, err := db.Exec(ctx, string(script))
	return err
}

func isIgnorableError(err error) bool {
	message := err.Error()

	// sqlite and postgres word this differently
	if strings.Contains(message, "duplicate column") {
		return true
	}

	if strings.Contains(message, "column") && strings.Contains(message, "already exists") {
		return true
	}

	return false
}

package database

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationScriptsArePerDriver(t *testing.T) {
	sqlite, err := MigrationScripts(DriverSqlite)
	require.NoError(t, err)
	assert.Equal(t, []string{"sql-migrations/sqlite/commit-001-initial.sql"}, sqlite)

	postgres, err := MigrationScripts(DriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, []string{"sql-migrations/postgres/commit-001-initial.sql"}, postgres)
}

func TestPostgresParentsGetGeneratedIDs(t *testing.T) {
	b, err := fs.ReadFile(sqlMigrationsFs, "sql-migrations/postgres/commit-001-initial.sql")
	require.NoError(t, err)

	assert.Contains(t, string(b), "id BIGSERIAL PRIMARY KEY")
	assert.NotContains(t, string(b), "INTEGER PRIMARY KEY")
}

func TestMigrationScriptsRejectsUnknownDriver(t *testing.T) {
	_, err := MigrationScripts("mysql")
	assert.ErrorContains(t, err, "mysql")
}

func TestMigrateSqliteAssignsParentIDs(t *testing.T) {
	db, err := Connect(DriverSqlite, "file:"+filepath.Join(t.TempDir(), "kidzart.db"))
	require.NoError(t, err)

	require.NoError(t, Migrate(db, DriverSqlite))
	// running twice is harmless
	require.NoError(t, Migrate(db, DriverSqlite))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	_, err = db.Exec(ctx, "INSERT INTO parents (created_at, updated_at, password, name, email) VALUES (?, ?, ?, ?, ?)", now, now, "crayons", "Sam", "")
	require.NoError(t, err)

	var id int64
	require.NoError(t, db.QueryRow(ctx, &id, "SELECT id FROM parents WHERE password=?", "crayons"))
	assert.Positive(t, id)
}

func TestIsIgnorableError(t *testing.T) {
	assert.True(t, isIgnorableError(errors.New("duplicate column name: email")))
	assert.True(t, isIgnorableError(errors.New(`pq: column "email" of relation "parents" already exists`)))
	assert.False(t, isIgnorableError(errors.New("syntax error near CREATE")))
}

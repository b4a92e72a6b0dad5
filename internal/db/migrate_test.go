package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS_PairsUpAndDown(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file in migrations: %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestInitMigration_EnforcesUniqueness(t *testing.T) {
	b, err := migrationsFS.ReadFile("migrations/0001_init.up.sql")
	require.NoError(t, err)
	sql := string(b)

	assert.Contains(t, sql, "UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email))")
	assert.Contains(t, sql, "UNIQUE INDEX IF NOT EXISTS inventory_items_item_name_key")
}

func TestNewMigrator_BadURL(t *testing.T) {
	_, err := NewMigrator("notascheme://nowhere")
	assert.Error(t, err)
}

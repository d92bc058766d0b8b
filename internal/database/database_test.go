package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrateStampsSchemaVersion(t *testing.T) {
	db, err := Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	version, err := SchemaVersion(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, CurrentSchemaVersion, version)

	// migrating again keeps the existing stamp
	require.NoError(t, Migrate(db))
	version, err = SchemaVersion(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, CurrentSchemaVersion, version)
}

func TestSchemaVersionBeforeMigration(t *testing.T) {
	db, err := Connect(":memory:")
	require.NoError(t, err)

	version, err := SchemaVersion(context.Background(), db)
	require.NoError(t, err)
	require.Empty(t, version)
}

func TestSchemaInfoAdapter(t *testing.T) {
	db, err := Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	version, err := NewSchemaInfo(db).SchemaVersion(context.Background())
	require.NoError(t, err)
	require.Equal(t, CurrentSchemaVersion, version)
}

package postgresql_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/workpulse-hq/timetrack-backend-go/internal/pkg/database"
)

var (
	testDB     *database.DB
	testDBOnce sync.Once
)

// setupTestDB connects to the test database, skipping the test when no
// TEST_DATABASE_URL is configured. The schema from migrations/ must be
// applied beforehand.
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	testDBOnce.Do(func() {
		var err error
		testDB, err = database.NewPostgreSQLDB(dsn)
		if err != nil {
			panic("Failed to connect to test database: " + err.Error())
		}
	})

	return testDB
}

// truncateTables resets all tables touched by the repository tests.
func truncateTables(t *testing.T, db *database.DB) {
	t.Helper()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	tables := []string{
		"time_entries",
		"contractor_exceptions",
		"exception_auto_approval_rules",
		"projects",
		"contractors",
	}
	for _, table := range tables {
		_, err = tx.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(t, err)
	}

	require.NoError(t, tx.Commit(ctx))
}

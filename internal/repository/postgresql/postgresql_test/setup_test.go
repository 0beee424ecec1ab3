package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/sitecrew/sitecrew-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Exec(ctx, "TRUNCATE TABLE payroll_records, site_employees, sites, employees, users CASCADE")
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *database.DB, email string) string {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	var userID string
	err = db.QueryRow(context.Background(), `
		INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id
	`, email, string(hashed)).Scan(&userID)
	require.NoError(t, err)
	return userID
}

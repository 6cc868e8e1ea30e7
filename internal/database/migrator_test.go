package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-order-backend/internal/database"
)

func TestMigrations_Ordered(t *testing.T) {
	names, err := database.Migrations()
	require.NoError(t, err)

	assert.Equal(t, []string{"001_create_users.sql", "002_create_orders.sql"}, names)
}

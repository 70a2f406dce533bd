package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/testutil"
)

func TestSmoke(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, _, cleanup := testutil.StartPostgres(ctx, t)
	t.Cleanup(cleanup)

	rows, err := db.Query("SELECT 1")
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())

	conn, _ := testutil.StartRabbitMQ(t)
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()
}

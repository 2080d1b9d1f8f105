//go:build integration

package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/badgescan/internal/migration"
	"github.com/smallbiznis/badgescan/pkg/db"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewPostgres starts a throwaway Postgres container, applies the schema and
// returns a pooled handle, so concurrent transactions really overlap.
func NewPostgres(t testing.TB) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("badgescan"),
		postgrescontainer.WithUsername("badgescan"),
		postgrescontainer.WithPassword("badgescan"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dialector, err := db.Dialect(db.Config{
		Type:     "postgres",
		Host:     host,
		Port:     port.Port(),
		Name:     "badgescan",
		User:     "badgescan",
		Password: "badgescan",
		SSLMode:  "disable",
	})
	require.NoError(t, err)

	var conn *gorm.DB
	deadline := time.Now().Add(30 * time.Second)
	for {
		conn, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err == nil {
			sqlDB, _ := conn.DB()
			if err = sqlDB.PingContext(ctx); err == nil {
				sqlDB.SetMaxOpenConns(20)
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("postgres not ready: %v", err)
		}
		time.Sleep(500 * time.Millisecond)
	}

	require.NoError(t, migration.Apply(conn, zap.NewNop()))
	return conn
}

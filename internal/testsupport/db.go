// Package testsupport opens throwaway stores for package tests.
package testsupport

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/badgescan/internal/migration"
	userdomain "github.com/smallbiznis/badgescan/internal/user/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB returns a migrated in-memory sqlite store private to t. The pool
// holds one connection so concurrent transactions queue instead of racing.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared&_pragma=busy_timeout(5000)", dbSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.Apply(conn, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func NewNode(t testing.TB) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return node
}

// SeedUser inserts an attendee with the given badge code.
func SeedUser(t testing.TB, conn *gorm.DB, badgeCode string, at time.Time) userdomain.User {
	t.Helper()
	user := userdomain.User{
		BadgeCode: badgeCode,
		Name:      "Attendee " + badgeCode,
		Email:     strings.ToLower(badgeCode) + "@example.com",
		Phone:     "+1 555 0100",
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", badgeCode, err)
	}
	return user
}

// Count returns the number of rows in table.
func Count(t testing.TB, conn *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := conn.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

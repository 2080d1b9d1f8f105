package repository

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/badgescan/internal/friendship/domain"
	"github.com/smallbiznis/badgescan/internal/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertReportsDuplicatePairInEitherOrder(t *testing.T) {
	db := testsupport.NewDB(t)
	node := testsupport.NewNode(t)
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	testsupport.SeedUser(t, db, "alice", at)
	testsupport.SeedUser(t, db, "bob", at)
	r := Provide()
	ctx := context.Background()

	inserted, err := r.Insert(ctx, db, &domain.Friendship{ID: node.Generate(), BadgeCodeA: "bob", BadgeCodeB: "alice", CreatedAt: at})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = r.Insert(ctx, db, &domain.Friendship{ID: node.Generate(), BadgeCodeA: "alice", BadgeCodeB: "bob", CreatedAt: at})
	require.NoError(t, err)
	assert.False(t, inserted)

	found, err := r.Find(ctx, db, "bob", "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "alice", found.BadgeCodeA)
	assert.Equal(t, "alice", found.Other("bob"))
}

func TestDeleteMatchesEitherOrder(t *testing.T) {
	db := testsupport.NewDB(t)
	node := testsupport.NewNode(t)
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	r := Provide()
	ctx := context.Background()

	_, err := r.Insert(ctx, db, &domain.Friendship{ID: node.Generate(), BadgeCodeA: "alice", BadgeCodeB: "bob", CreatedAt: at})
	require.NoError(t, err)

	n, err := r.Delete(ctx, db, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	missing, err := r.Find(ctx, db, "alice", "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNormalizePair(t *testing.T) {
	a, b := domain.NormalizePair("zed", "amy")
	assert.Equal(t, "amy", a)
	assert.Equal(t, "zed", b)

	a, b = domain.NormalizePair("amy", "zed")
	assert.Equal(t, "amy", a)
	assert.Equal(t, "zed", b)
}

//go:build integration

package service

import (
	"context"
	"sync"
	"testing"

	"github.com/smallbiznis/badgescan/internal/apperror"
	"github.com/smallbiznis/badgescan/internal/clock"
	"github.com/smallbiznis/badgescan/internal/friendship/domain"
	"github.com/smallbiznis/badgescan/internal/friendship/repository"
	"github.com/smallbiznis/badgescan/internal/testsupport"
	userrepo "github.com/smallbiznis/badgescan/internal/user/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConcurrentCreateSamePairOnPostgres(t *testing.T) {
	conn := testsupport.NewPostgres(t)
	testsupport.SeedUser(t, conn, "alice", seedTime)
	testsupport.SeedUser(t, conn, "bob", seedTime)

	svc := New(Params{
		DB:       conn,
		Log:      zap.NewNop(),
		GenID:    testsupport.NewNode(t),
		Clock:    clock.New(),
		Repo:     repository.Provide(),
		UserRepo: userrepo.Provide(),
	})

	const n = 32
	start := make(chan struct{})
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			if i%2 == 0 {
				results <- svc.Create(context.Background(), "alice", "bob")
				return
			}
			results <- svc.Create(context.Background(), "bob", "alice")
		}(i)
	}
	close(start)
	wg.Wait()
	close(results)

	var created, conflicts int
	for err := range results {
		switch {
		case err == nil:
			created++
		case apperror.KindOf(err) == apperror.KindConflict:
			assert.ErrorIs(t, err, domain.ErrFriendshipExists)
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)
	assert.Equal(t, int64(1), testsupport.Count(t, conn, "friendships"))

	friends, err := svc.ListFriends(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "alice", friends[0].Friend)
}

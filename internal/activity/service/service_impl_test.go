package service

import (
	"context"
	"testing"

	"github.com/smallbiznis/badgescan/internal/activity/domain"
	"github.com/smallbiznis/badgescan/internal/activity/repository"
	"github.com/smallbiznis/badgescan/internal/apperror"
	"github.com/smallbiznis/badgescan/internal/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func setupActivityService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db := testsupport.NewDB(t)
	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})

	rows := []domain.ActivityCategory{
		{ActivityName: "breakfast", ActivityCategory: "meal", ScanCount: 12},
		{ActivityName: "hackathon", ActivityCategory: "competition", ScanCount: 5},
		{ActivityName: "keynote", ActivityCategory: "talk", ScanCount: 4},
		{ActivityName: "lunch", ActivityCategory: "meal", ScanCount: 7},
		{ActivityName: "workshop", ActivityCategory: "talk", ScanCount: 1},
	}
	require.NoError(t, db.Create(&rows).Error)
	return svc, db
}

func names(stats []domain.ActivityStat) []string {
	out := make([]string, 0, len(stats))
	for _, s := range stats {
		out = append(out, s.ActivityName)
	}
	return out
}

func TestQueryStatsFilters(t *testing.T) {
	svc, _ := setupActivityService(t)

	cases := []struct {
		name  string
		query domain.StatsQuery
		want  []string
	}{
		{"no filters", domain.StatsQuery{}, []string{"breakfast", "hackathon", "keynote", "lunch", "workshop"}},
		{"min inclusive", domain.StatsQuery{MinFrequency: int64Ptr(5)}, []string{"breakfast", "hackathon", "lunch"}},
		{"max inclusive", domain.StatsQuery{MaxFrequency: int64Ptr(4)}, []string{"keynote", "workshop"}},
		{"range", domain.StatsQuery{MinFrequency: int64Ptr(4), MaxFrequency: int64Ptr(7)}, []string{"hackathon", "keynote", "lunch"}},
		{"category", domain.StatsQuery{Category: strPtr("meal")}, []string{"breakfast", "lunch"}},
		{"all filters", domain.StatsQuery{MinFrequency: int64Ptr(2), MaxFrequency: int64Ptr(10), Category: strPtr("talk")}, []string{"keynote"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stats, err := svc.QueryStats(context.Background(), tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, names(stats))
		})
	}
}

func TestQueryStatsNoMatchIsEmptyNotError(t *testing.T) {
	svc, _ := setupActivityService(t)

	for _, q := range []domain.StatsQuery{
		{MinFrequency: int64Ptr(100)},
		{Category: strPtr("party")},
		{MinFrequency: int64Ptr(8), MaxFrequency: int64Ptr(3)},
	} {
		stats, err := svc.QueryStats(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, stats)
		assert.Empty(t, stats)
	}
}

func TestQueryStatsReturnsCounts(t *testing.T) {
	svc, _ := setupActivityService(t)

	stats, err := svc.QueryStats(context.Background(), domain.StatsQuery{Category: strPtr("competition")})
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, domain.ActivityStat{ActivityName: "hackathon", ScanCount: 5, ActivityCategory: "competition"}, stats[0])
}

func TestQueryStatsRejectsNegativeBounds(t *testing.T) {
	svc, _ := setupActivityService(t)

	_, err := svc.QueryStats(context.Background(), domain.StatsQuery{MinFrequency: int64Ptr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidMinFrequency)
	assert.Equal(t, apperror.KindInvalidArgument, apperror.KindOf(err))

	_, err = svc.QueryStats(context.Background(), domain.StatsQuery{MaxFrequency: int64Ptr(-3)})
	assert.ErrorIs(t, err, domain.ErrInvalidMaxFrequency)
}

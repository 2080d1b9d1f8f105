package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	activitydomain "github.com/smallbiznis/badgescan/internal/activity/domain"
	activityrepo "github.com/smallbiznis/badgescan/internal/activity/repository"
	"github.com/smallbiznis/badgescan/internal/apperror"
	"github.com/smallbiznis/badgescan/internal/clock"
	"github.com/smallbiznis/badgescan/internal/events"
	"github.com/smallbiznis/badgescan/internal/scan/domain"
	"github.com/smallbiznis/badgescan/internal/scan/repository"
	"github.com/smallbiznis/badgescan/internal/testsupport"
	userdomain "github.com/smallbiznis/badgescan/internal/user/domain"
	userrepo "github.com/smallbiznis/badgescan/internal/user/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var seedTime = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	svc       domain.Service
	db        *gorm.DB
	clock     *clock.FakeClock
	publisher *events.Recorder
}

func setupScanService(t *testing.T) fixture {
	t.Helper()
	db := testsupport.NewDB(t)
	fc := clock.NewFakeClock(seedTime.Add(time.Hour))
	publisher := events.NewRecorder()
	svc := New(Params{
		DB:           db,
		Log:          zap.NewNop(),
		GenID:        testsupport.NewNode(t),
		Clock:        fc,
		Repo:         repository.Provide(),
		UserRepo:     userrepo.Provide(),
		ActivityRepo: activityrepo.Provide(),
		Publisher:    publisher,
	})
	return fixture{svc: svc, db: db, clock: fc, publisher: publisher}
}

func findAggregate(t *testing.T, db *gorm.DB, name string) *activitydomain.ActivityCategory {
	t.Helper()
	item, err := activityrepo.Provide().FindByName(context.Background(), db, name)
	require.NoError(t, err)
	return item
}

func TestRecordCreatesAggregateAndScan(t *testing.T) {
	f := setupScanService(t)
	testsupport.SeedUser(t, f.db, "B-001", seedTime)

	scan, err := f.svc.Record(context.Background(), domain.RecordScanRequest{
		BadgeCode:        "B-001",
		ActivityName:     "opening_keynote",
		ActivityCategory: "talk",
	})
	require.NoError(t, err)

	now := f.clock.Now()
	assert.Equal(t, "opening_keynote", scan.ActivityName)
	assert.Equal(t, "talk", scan.ActivityCategory)
	assert.True(t, now.Equal(scan.ScannedAt))

	aggregate := findAggregate(t, f.db, "opening_keynote")
	require.NotNil(t, aggregate)
	assert.Equal(t, int64(1), aggregate.ScanCount)
	assert.Equal(t, "talk", aggregate.ActivityCategory)

	user, err := userrepo.Provide().FindByBadgeCode(context.Background(), f.db, "B-001")
	require.NoError(t, err)
	assert.True(t, now.Equal(user.UpdatedAt), "updated_at %v, want %v", user.UpdatedAt, now)

	scans, err := repository.Provide().ListByUser(context.Background(), f.db, "B-001")
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.True(t, now.Equal(scans[0].ScannedAt))

	published := f.publisher.OfType(events.TypeScanRecorded)
	require.Len(t, published, 1)
	assert.Equal(t, "B-001", published[0].Key)
}

func TestRecordKeepsFirstCategoryAndAllowsDuplicates(t *testing.T) {
	f := setupScanService(t)
	testsupport.SeedUser(t, f.db, "B-001", seedTime)
	ctx := context.Background()

	_, err := f.svc.Record(ctx, domain.RecordScanRequest{BadgeCode: "B-001", ActivityName: "lunch", ActivityCategory: "meal"})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	scan, err := f.svc.Record(ctx, domain.RecordScanRequest{BadgeCode: "B-001", ActivityName: "lunch", ActivityCategory: "snack"})
	require.NoError(t, err)

	assert.Equal(t, "meal", scan.ActivityCategory)
	assert.Equal(t, int64(2), findAggregate(t, f.db, "lunch").ScanCount)
	assert.Equal(t, int64(2), testsupport.Count(t, f.db, "user_activities"))
}

func TestRecordUnknownBadgeHasNoSideEffects(t *testing.T) {
	f := setupScanService(t)
	testsupport.SeedUser(t, f.db, "B-001", seedTime)

	_, err := f.svc.Record(context.Background(), domain.RecordScanRequest{
		BadgeCode:        "B-404",
		ActivityName:     "workshop",
		ActivityCategory: "session",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, userdomain.ErrUserNotFound)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Zero(t, testsupport.Count(t, f.db, "activity_categories"))
	assert.Zero(t, testsupport.Count(t, f.db, "user_activities"))
	assert.Empty(t, f.publisher.Events())
}

func TestRecordRejectsBlankInput(t *testing.T) {
	f := setupScanService(t)
	testsupport.SeedUser(t, f.db, "B-001", seedTime)

	cases := []struct {
		name string
		req  domain.RecordScanRequest
		want error
	}{
		{"blank badge", domain.RecordScanRequest{BadgeCode: " ", ActivityName: "lunch"}, domain.ErrInvalidBadgeCode},
		{"blank activity", domain.RecordScanRequest{BadgeCode: "B-001", ActivityName: ""}, domain.ErrInvalidActivityName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Record(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, apperror.KindInvalidArgument, apperror.KindOf(err))
		})
	}
	assert.Zero(t, testsupport.Count(t, f.db, "user_activities"))
}

func TestRecordConcurrentScansDoNotLoseUpdates(t *testing.T) {
	f := setupScanService(t)
	const n = 25
	badges := []string{"B-001", "B-002", "B-003"}
	for _, code := range badges {
		testsupport.SeedUser(t, f.db, code, seedTime)
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Record(context.Background(), domain.RecordScanRequest{
				BadgeCode:        badges[i%len(badges)],
				ActivityName:     "hackathon",
				ActivityCategory: "competition",
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(n), findAggregate(t, f.db, "hackathon").ScanCount)
	assert.Equal(t, int64(n), testsupport.Count(t, f.db, "user_activities"))
	assert.Len(t, f.publisher.OfType(events.TypeScanRecorded), n)
}

func TestRecordSucceedsWhenPublishFails(t *testing.T) {
	f := setupScanService(t)
	testsupport.SeedUser(t, f.db, "B-001", seedTime)
	f.publisher.FailWith(errors.New("broker unavailable"))

	_, err := f.svc.Record(context.Background(), domain.RecordScanRequest{
		BadgeCode:        "B-001",
		ActivityName:     "closing",
		ActivityCategory: "talk",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), findAggregate(t, f.db, "closing").ScanCount)
}

func TestRecordWrapsStoreFailureAsInternal(t *testing.T) {
	f := setupScanService(t)
	testsupport.SeedUser(t, f.db, "B-001", seedTime)
	require.NoError(t, f.db.Migrator().DropTable("user_activities"))

	_, err := f.svc.Record(context.Background(), domain.RecordScanRequest{
		BadgeCode:        "B-001",
		ActivityName:     "lunch",
		ActivityCategory: "meal",
	})

	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	// the increment rolled back with the failed insert
	assert.Nil(t, findAggregate(t, f.db, "lunch"))
}

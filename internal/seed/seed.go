// Package seed loads attendees and their past scans from a JSON export.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/smallbiznis/badgescan/internal/activity/domain"
	"github.com/smallbiznis/badgescan/internal/clock"
	"github.com/smallbiznis/badgescan/internal/ratelimit"
	scandomain "github.com/smallbiznis/badgescan/internal/scan/domain"
	userdomain "github.com/smallbiznis/badgescan/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	importLockKey = "seed:import"
	importLockTTL = 10 * time.Minute
)

var ErrImportInProgress = errors.New("another seed import is running")

type Attendee struct {
	BadgeCode string       `json:"badge_code"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone"`
	Scans     []ScanRecord `json:"scans"`
}

type ScanRecord struct {
	ActivityName     string    `json:"activity_name"`
	ActivityCategory string    `json:"activity_category"`
	ScannedAt        time.Time `json:"scanned_at"`
}

type Summary struct {
	Users int
	Scans int
}

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (ratelimit.Lease, error)
}

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	UserRepo     userdomain.Repository
	ActivityRepo activitydomain.Repository
	ScanRepo     scandomain.Repository
	Locker       *ratelimit.Locker `optional:"true"`
}

type Importer struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	userRepo     userdomain.Repository
	activityRepo activitydomain.Repository
	scanRepo     scandomain.Repository
	locker       Locker
}

func New(p Params) *Importer {
	imp := &Importer{
		db:           p.DB,
		log:          p.Log.Named("seed"),
		genID:        p.GenID,
		clock:        p.Clock,
		userRepo:     p.UserRepo,
		activityRepo: p.ActivityRepo,
		scanRepo:     p.ScanRepo,
	}
	if p.Locker != nil {
		imp.locker = p.Locker
	}
	return imp
}

func (i *Importer) ImportFile(ctx context.Context, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return i.Import(ctx, f)
}

// Import upserts every attendee and replays their scans through the same
// increment used for live scans. Each attendee commits on its own, so a bad
// record aborts the run without undoing the attendees before it.
func (i *Importer) Import(ctx context.Context, r io.Reader) (Summary, error) {
	var attendees []Attendee
	if err := json.NewDecoder(r).Decode(&attendees); err != nil {
		return Summary{}, fmt.Errorf("decode seed file: %w", err)
	}

	var lease ratelimit.Lease
	if i.locker != nil {
		var err error
		lease, err = i.locker.Acquire(ctx, importLockKey, importLockTTL)
		if errors.Is(err, ratelimit.ErrLeaseHeld) {
			return Summary{}, ErrImportInProgress
		}
		if err != nil {
			return Summary{}, err
		}
		defer func() {
			if err := lease.Release(ctx); err != nil {
				i.log.Warn("failed to release seed lease", zap.Error(err))
			}
		}()
	}

	var summary Summary
	for idx, attendee := range attendees {
		if err := validate(attendee); err != nil {
			return summary, fmt.Errorf("attendee %d: %w", idx, err)
		}
		if err := i.importAttendee(ctx, attendee); err != nil {
			return summary, fmt.Errorf("attendee %s: %w", attendee.BadgeCode, err)
		}
		// committed; count it even if the lease is gone
		summary.Users++
		summary.Scans += len(attendee.Scans)
		if lease != nil {
			if err := lease.Refresh(ctx); err != nil {
				return summary, fmt.Errorf("seed lease: %w", err)
			}
		}
		i.log.Debug("imported attendee",
			zap.String("badge_code", attendee.BadgeCode),
			zap.Int("scans", len(attendee.Scans)),
		)
	}

	i.log.Info("seed import completed",
		zap.Int("users", summary.Users),
		zap.Int("scans", summary.Scans),
	)
	return summary, nil
}

func validate(a Attendee) error {
	if strings.TrimSpace(a.BadgeCode) == "" {
		return errors.New("badge_code is required")
	}
	for _, scan := range a.Scans {
		if strings.TrimSpace(scan.ActivityName) == "" {
			return errors.New("scan activity_name is required")
		}
	}
	return nil
}

func (i *Importer) importAttendee(ctx context.Context, a Attendee) error {
	now := i.clock.Now()
	badgeCode := strings.TrimSpace(a.BadgeCode)

	return i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := userdomain.User{
			BadgeCode: badgeCode,
			Name:      a.Name,
			Email:     a.Email,
			Phone:     a.Phone,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := i.userRepo.Upsert(ctx, tx, &user); err != nil {
			return err
		}

		for _, scan := range a.Scans {
			name := strings.TrimSpace(scan.ActivityName)
			if err := i.activityRepo.IncrementOrCreate(ctx, tx, name, strings.TrimSpace(scan.ActivityCategory)); err != nil {
				return err
			}
			scannedAt := scan.ScannedAt.UTC()
			if scan.ScannedAt.IsZero() {
				scannedAt = now
			}
			if err := i.scanRepo.Insert(ctx, tx, &scandomain.UserActivity{
				ID:            i.genID.Generate(),
				UserBadgeCode: badgeCode,
				ActivityName:  name,
				ScannedAt:     scannedAt,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

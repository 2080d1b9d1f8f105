package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/smallbiznis/badgescan/internal/activity/domain"
	"github.com/smallbiznis/badgescan/internal/apperror"
	"github.com/smallbiznis/badgescan/internal/clock"
	"github.com/smallbiznis/badgescan/internal/events"
	"github.com/smallbiznis/badgescan/internal/observability/logger"
	"github.com/smallbiznis/badgescan/internal/observability/metrics"
	"github.com/smallbiznis/badgescan/internal/scan/domain"
	userdomain "github.com/smallbiznis/badgescan/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	UserRepo     userdomain.Repository
	ActivityRepo activitydomain.Repository
	Publisher    events.Publisher `optional:"true"`
	Metrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	userRepo     userdomain.Repository
	activityRepo activitydomain.Repository
	publisher    events.Publisher
	metrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	publisher := p.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("scan.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		userRepo:     p.UserRepo,
		activityRepo: p.ActivityRepo,
		publisher:    publisher,
		metrics:      p.Metrics,
	}
}

// Record checks a user into an activity. The user's freshness stamp, the
// activity total and the scan row are written in one transaction and all
// carry the same instant.
func (s *Service) Record(ctx context.Context, req domain.RecordScanRequest) (domain.Scan, error) {
	badgeCode := strings.TrimSpace(req.BadgeCode)
	if badgeCode == "" {
		return domain.Scan{}, domain.ErrInvalidBadgeCode
	}
	activityName := strings.TrimSpace(req.ActivityName)
	if activityName == "" {
		return domain.Scan{}, domain.ErrInvalidActivityName
	}
	category := strings.TrimSpace(req.ActivityCategory)

	now := s.clock.Now()
	var scan domain.Scan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByBadgeCode(ctx, tx, badgeCode)
		if err != nil {
			return err
		}
		if user == nil {
			return userdomain.ErrUserNotFound
		}

		if _, err := s.userRepo.Touch(ctx, tx, badgeCode, now); err != nil {
			return err
		}
		if err := s.activityRepo.IncrementOrCreate(ctx, tx, activityName, category); err != nil {
			return err
		}
		aggregate, err := s.activityRepo.FindByName(ctx, tx, activityName)
		if err != nil {
			return err
		}
		if aggregate == nil {
			return errors.New("activity aggregate missing after increment")
		}

		row := domain.UserActivity{
			ID:            s.genID.Generate(),
			UserBadgeCode: badgeCode,
			ActivityName:  activityName,
			ScannedAt:     now,
		}
		if err := s.repo.Insert(ctx, tx, &row); err != nil {
			return err
		}

		scan = domain.Scan{
			ActivityName:     activityName,
			ScannedAt:        now,
			ActivityCategory: aggregate.ActivityCategory,
		}
		return nil
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			logger.WithContext(ctx, s.log).Error("failed to record scan",
				zap.String("badge_code", badgeCode),
				zap.String("activity_name", activityName),
				zap.Error(err),
			)
		}
		return domain.Scan{}, apperror.Internal(err)
	}

	s.metrics.RecordScan(ctx)
	s.publish(ctx, events.Event{
		Type:       events.TypeScanRecorded,
		Key:        badgeCode,
		OccurredAt: now,
		Payload: map[string]any{
			"badge_code":        badgeCode,
			"activity_name":     scan.ActivityName,
			"activity_category": scan.ActivityCategory,
			"scanned_at":        now,
		},
	})

	return scan, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.WithContext(ctx, s.log).Warn("failed to publish event",
			zap.String("event_type", event.Type),
			zap.Error(err),
		)
	}
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/badgescan/internal/apperror"
	"github.com/smallbiznis/badgescan/internal/clock"
	"github.com/smallbiznis/badgescan/internal/events"
	"github.com/smallbiznis/badgescan/internal/friendship/domain"
	"github.com/smallbiznis/badgescan/internal/observability/logger"
	"github.com/smallbiznis/badgescan/internal/observability/metrics"
	userdomain "github.com/smallbiznis/badgescan/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	UserRepo  userdomain.Repository
	Publisher events.Publisher `optional:"true"`
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	userRepo  userdomain.Repository
	publisher events.Publisher
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	publisher := p.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("friendship.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		userRepo:  p.UserRepo,
		publisher: publisher,
		metrics:   p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, badgeCode, friendBadgeCode string) error {
	a, b, err := validatePair(badgeCode, friendBadgeCode)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	var created domain.Friendship
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUsers(ctx, tx, a, b); err != nil {
			return err
		}

		existing, err := s.repo.Find(ctx, tx, a, b)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrFriendshipExists
		}

		created = domain.Friendship{
			ID:         s.genID.Generate(),
			BadgeCodeA: a,
			BadgeCodeB: b,
			CreatedAt:  now,
		}
		// a concurrent request for the same pair loses on idx_friendships_pair
		inserted, err := s.repo.Insert(ctx, tx, &created)
		if err != nil {
			return err
		}
		if !inserted {
			return domain.ErrFriendshipExists
		}
		return nil
	})
	if err != nil {
		return s.fail(ctx, "failed to create friendship", a, b, err)
	}

	s.metrics.RecordFriendshipEvent(ctx, events.TypeFriendshipCreated)
	s.publish(ctx, events.TypeFriendshipCreated, created.BadgeCodeA, created.BadgeCodeB, now)
	return nil
}

func (s *Service) Remove(ctx context.Context, badgeCode, friendBadgeCode string) error {
	a, b, err := validatePair(badgeCode, friendBadgeCode)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ensureUsers(ctx, tx, a, b); err != nil {
			return err
		}

		removed, err := s.repo.Delete(ctx, tx, a, b)
		if err != nil {
			return err
		}
		if removed == 0 {
			return domain.ErrFriendshipNotFound
		}
		return nil
	})
	if err != nil {
		return s.fail(ctx, "failed to remove friendship", a, b, err)
	}

	first, second := domain.NormalizePair(a, b)
	s.metrics.RecordFriendshipEvent(ctx, events.TypeFriendshipRemoved)
	s.publish(ctx, events.TypeFriendshipRemoved, first, second, s.clock.Now())
	return nil
}

// ListFriends returns the other side of every edge touching badgeCode,
// oldest friendship first.
func (s *Service) ListFriends(ctx context.Context, badgeCode string) ([]domain.Friend, error) {
	badgeCode = strings.TrimSpace(badgeCode)
	if badgeCode == "" {
		return nil, domain.ErrInvalidBadgeCode
	}

	var friends []domain.Friend
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.userRepo.Exists(ctx, tx, badgeCode)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrUserNotFound
		}

		edges, err := s.repo.ListByBadgeCode(ctx, tx, badgeCode)
		if err != nil {
			return err
		}
		friends = make([]domain.Friend, 0, len(edges))
		for _, edge := range edges {
			friends = append(friends, domain.Friend{
				Friend:       edge.Other(badgeCode),
				FriendsSince: edge.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return friends, nil
}

func validatePair(badgeCode, friendBadgeCode string) (string, string, error) {
	a := strings.TrimSpace(badgeCode)
	b := strings.TrimSpace(friendBadgeCode)
	if a == "" || b == "" {
		return "", "", domain.ErrInvalidBadgeCode
	}
	if a == b {
		return "", "", domain.ErrSelfFriendship
	}
	return a, b, nil
}

func (s *Service) ensureUsers(ctx context.Context, tx *gorm.DB, badgeCode, friendBadgeCode string) error {
	ok, err := s.userRepo.Exists(ctx, tx, badgeCode)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}

	ok, err = s.userRepo.Exists(ctx, tx, friendBadgeCode)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrFriendNotFound
	}
	return nil
}

func (s *Service) fail(ctx context.Context, msg, a, b string, err error) error {
	if apperror.KindOf(err) == apperror.KindInternal {
		logger.WithContext(ctx, s.log).Error(msg,
			zap.String("badge_code", a),
			zap.String("friend_badge_code", b),
			zap.Error(err),
		)
	}
	return apperror.Internal(err)
}

func (s *Service) publish(ctx context.Context, eventType, a, b string, at time.Time) {
	event := events.Event{
		Type:       eventType,
		Key:        a + ":" + b,
		OccurredAt: at,
		Payload: map[string]any{
			"badge_code_a": a,
			"badge_code_b": b,
		},
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.WithContext(ctx, s.log).Warn("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

package service

import (
	"context"
	"sort"
	"strings"

	"github.com/smallbiznis/badgescan/internal/apperror"
	"github.com/smallbiznis/badgescan/internal/clock"
	"github.com/smallbiznis/badgescan/internal/observability/logger"
	scandomain "github.com/smallbiznis/badgescan/internal/scan/domain"
	"github.com/smallbiznis/badgescan/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     domain.Repository
	ScanRepo scandomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	scanRepo scandomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("user.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		scanRepo: p.ScanRepo,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.UserResponse, error) {
	users, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	codes := make([]string, 0, len(users))
	for _, u := range users {
		codes = append(codes, u.BadgeCode)
	}
	rows, err := s.scanRepo.ListByUsers(ctx, s.db, codes)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	scansByUser := make(map[string][]scandomain.Scan, len(users))
	for _, row := range rows {
		scansByUser[row.UserBadgeCode] = append(scansByUser[row.UserBadgeCode], row.ToScan())
	}

	resp := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, domain.NewUserResponse(u, scansByUser[u.BadgeCode]))
	}
	return resp, nil
}

func (s *Service) GetByBadgeCode(ctx context.Context, badgeCode string) (domain.UserResponse, error) {
	badgeCode = strings.TrimSpace(badgeCode)
	if badgeCode == "" {
		return domain.UserResponse{}, domain.ErrInvalidBadgeCode
	}
	return s.load(ctx, s.db, badgeCode)
}

// Update applies an allow-listed subset of name, email and phone. Every key
// is checked before anything is written, so a rejected request leaves the
// row untouched.
func (s *Service) Update(ctx context.Context, req domain.UpdateUserRequest) (domain.UserResponse, error) {
	badgeCode := strings.TrimSpace(req.BadgeCode)
	if badgeCode == "" {
		return domain.UserResponse{}, domain.ErrInvalidBadgeCode
	}

	var resp domain.UserResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByBadgeCode(ctx, tx, badgeCode)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrUserNotFound
		}

		fields, err := validateFields(req.Fields)
		if err != nil {
			return err
		}
		fields["updated_at"] = s.clock.Now()

		if _, err := s.repo.UpdateFields(ctx, tx, badgeCode, fields); err != nil {
			return err
		}

		resp, err = s.load(ctx, tx, badgeCode)
		return err
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			logger.WithContext(ctx, s.log).Error("failed to update user",
				zap.String("badge_code", badgeCode),
				zap.Error(err),
			)
		}
		return domain.UserResponse{}, apperror.Internal(err)
	}
	return resp, nil
}

func validateFields(fields map[string]any) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, domain.ErrEmptyUpdate
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	updates := make(map[string]any, len(fields)+1)
	for _, key := range keys {
		if _, ok := domain.UpdatableFields[key]; !ok {
			return nil, domain.ErrInvalidField.Withf("invalid update field: %s", key)
		}
		value, ok := fields[key].(string)
		if !ok {
			return nil, domain.ErrInvalidFieldValue.Withf("%s must be a string", key)
		}
		updates[key] = strings.TrimSpace(value)
	}
	return updates, nil
}

func (s *Service) load(ctx context.Context, db *gorm.DB, badgeCode string) (domain.UserResponse, error) {
	user, err := s.repo.FindByBadgeCode(ctx, db, badgeCode)
	if err != nil {
		return domain.UserResponse{}, apperror.Internal(err)
	}
	if user == nil {
		return domain.UserResponse{}, domain.ErrUserNotFound
	}

	rows, err := s.scanRepo.ListByUser(ctx, db, badgeCode)
	if err != nil {
		return domain.UserResponse{}, apperror.Internal(err)
	}
	scans := make([]scandomain.Scan, 0, len(rows))
	for _, row := range rows {
		scans = append(scans, row.ToScan())
	}
	return domain.NewUserResponse(*user, scans), nil
}

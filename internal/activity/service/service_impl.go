package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/badgescan/internal/activity/domain"
	"github.com/smallbiznis/badgescan/internal/apperror"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("activity.service"),
		repo: p.Repo,
	}
}

// QueryStats returns the activities whose scan count and category satisfy
// every filter that is set. No match yields an empty slice, not an error.
func (s *Service) QueryStats(ctx context.Context, req domain.StatsQuery) ([]domain.ActivityStat, error) {
	if req.MinFrequency != nil && *req.MinFrequency < 0 {
		return nil, domain.ErrInvalidMinFrequency
	}
	if req.MaxFrequency != nil && *req.MaxFrequency < 0 {
		return nil, domain.ErrInvalidMaxFrequency
	}

	filter := domain.StatsFilter{
		MinFrequency: req.MinFrequency,
		MaxFrequency: req.MaxFrequency,
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		filter.Category = &category
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		s.log.Error("failed to list activity stats", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	stats := make([]domain.ActivityStat, 0, len(items))
	for _, item := range items {
		stats = append(stats, domain.ActivityStat{
			ActivityName:     item.ActivityName,
			ScanCount:        item.ScanCount,
			ActivityCategory: item.ActivityCategory,
		})
	}
	return stats, nil
}

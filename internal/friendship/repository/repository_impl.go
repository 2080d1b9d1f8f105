package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/badgescan/internal/friendship/domain"
	pkgdb "github.com/smallbiznis/badgescan/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, a, b string) (*domain.Friendship, error) {
	var item domain.Friendship
	err := db.WithContext(ctx).
		Where("(badge_code_a = ? AND badge_code_b = ?) OR (badge_code_a = ? AND badge_code_b = ?)", a, b, b, a).
		Order("created_at asc, id asc").
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, friendship *domain.Friendship) (bool, error) {
	friendship.BadgeCodeA, friendship.BadgeCodeB = domain.NormalizePair(friendship.BadgeCodeA, friendship.BadgeCodeB)
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(friendship)
	if pkgdb.IsDuplicateKeyErr(result.Error) {
		return false, nil
	}
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, a, b string) (int64, error) {
	result := db.WithContext(ctx).
		Where("(badge_code_a = ? AND badge_code_b = ?) OR (badge_code_a = ? AND badge_code_b = ?)", a, b, b, a).
		Delete(&domain.Friendship{})
	return result.RowsAffected, result.Error
}

func (r *repo) ListByBadgeCode(ctx context.Context, db *gorm.DB, badgeCode string) ([]domain.Friendship, error) {
	var items []domain.Friendship
	err := db.WithContext(ctx).
		Where("badge_code_a = ? OR badge_code_b = ?", badgeCode, badgeCode).
		Order("created_at asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/badgescan/internal/user/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByBadgeCode(ctx context.Context, db *gorm.DB, badgeCode string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).
		Where("badge_code = ?", badgeCode).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) Exists(ctx context.Context, db *gorm.DB, badgeCode string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("badge_code = ?", badgeCode).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var users []domain.User
	err := db.WithContext(ctx).
		Order("badge_code asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "badge_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone"}),
		}).
		Create(user).Error
}

func (r *repo) Touch(ctx context.Context, db *gorm.DB, badgeCode string, at time.Time) (int64, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE users SET updated_at = ? WHERE badge_code = ?`,
		at,
		badgeCode,
	)
	return result.RowsAffected, result.Error
}

func (r *repo) UpdateFields(ctx context.Context, db *gorm.DB, badgeCode string, fields map[string]any) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("badge_code = ?", badgeCode).
		Updates(fields)
	return result.RowsAffected, result.Error
}

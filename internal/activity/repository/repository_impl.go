package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/badgescan/internal/activity/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) IncrementOrCreate(ctx context.Context, db *gorm.DB, activityName, category string) error {
	row := domain.ActivityCategory{
		ActivityName:     activityName,
		ActivityCategory: category,
		ScanCount:        1,
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "activity_name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"scan_count": gorm.Expr("activity_categories.scan_count + 1"),
			}),
		}).
		Create(&row).Error
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, activityName string) (*domain.ActivityCategory, error) {
	var item domain.ActivityCategory
	err := db.WithContext(ctx).
		Where("activity_name = ?", activityName).
		Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.StatsFilter) ([]domain.ActivityCategory, error) {
	var items []domain.ActivityCategory
	stmt := db.WithContext(ctx).Model(&domain.ActivityCategory{})
	if filter.MinFrequency != nil {
		stmt = stmt.Where("scan_count >= ?", *filter.MinFrequency)
	}
	if filter.MaxFrequency != nil {
		stmt = stmt.Where("scan_count <= ?", *filter.MaxFrequency)
	}
	if filter.Category != nil {
		stmt = stmt.Where("activity_category = ?", *filter.Category)
	}
	err := stmt.
		Order("activity_name asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// IncrementOrCreate adds one scan to activityName in a single statement,
	// creating the row with scan_count 1 when it does not exist yet.
	IncrementOrCreate(ctx context.Context, db *gorm.DB, activityName, category string) error
	FindByName(ctx context.Context, db *gorm.DB, activityName string) (*ActivityCategory, error)
	List(ctx context.Context, db *gorm.DB, filter StatsFilter) ([]ActivityCategory, error)
}

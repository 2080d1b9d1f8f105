package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, activity *UserActivity) error
	ListByUser(ctx context.Context, db *gorm.DB, badgeCode string) ([]UserScan, error)
	ListByUsers(ctx context.Context, db *gorm.DB, badgeCodes []string) ([]UserScan, error)
}

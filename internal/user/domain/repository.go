package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FindByBadgeCode(ctx context.Context, db *gorm.DB, badgeCode string) (*User, error)
	Exists(ctx context.Context, db *gorm.DB, badgeCode string) (bool, error)
	List(ctx context.Context, db *gorm.DB) ([]User, error)
	// Upsert inserts user, or overwrites name, email and phone of an
	// existing row. Timestamps are only written on insert.
	Upsert(ctx context.Context, db *gorm.DB, user *User) error
	Touch(ctx context.Context, db *gorm.DB, badgeCode string, at time.Time) (int64, error)
	UpdateFields(ctx context.Context, db *gorm.DB, badgeCode string, fields map[string]any) (int64, error)
}

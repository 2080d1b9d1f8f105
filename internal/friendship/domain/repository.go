package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// Find looks up the edge between a and b in either stored order.
	Find(ctx context.Context, db *gorm.DB, a, b string) (*Friendship, error)
	// Insert reports false when the normalized pair already exists.
	Insert(ctx context.Context, db *gorm.DB, friendship *Friendship) (bool, error)
	// Delete removes every row joining a and b and returns how many went.
	Delete(ctx context.Context, db *gorm.DB, a, b string) (int64, error)
	ListByBadgeCode(ctx context.Context, db *gorm.DB, badgeCode string) ([]Friendship, error)
}

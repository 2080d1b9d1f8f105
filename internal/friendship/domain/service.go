package domain

import (
	"context"

	"github.com/smallbiznis/badgescan/internal/apperror"
)

type Service interface {
	Create(ctx context.Context, badgeCode, friendBadgeCode string) error
	Remove(ctx context.Context, badgeCode, friendBadgeCode string) error
	ListFriends(ctx context.Context, badgeCode string) ([]Friend, error)
}

var (
	ErrInvalidBadgeCode   = apperror.InvalidArgument("invalid_badge_code", "badge code is required")
	ErrSelfFriendship     = apperror.InvalidArgument("self_friendship", "cannot friend yourself")
	ErrUserNotFound       = apperror.NotFound("user_not_found", "user not found")
	ErrFriendNotFound     = apperror.NotFound("friend_not_found", "friend user not found")
	ErrFriendshipExists   = apperror.Conflict("friendship_exists", "friendship already exists")
	ErrFriendshipNotFound = apperror.Conflict("friendship_not_found", "friendship does not exist")
)

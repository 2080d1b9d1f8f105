package domain

import (
	"context"

	"github.com/smallbiznis/badgescan/internal/apperror"
)

// UpdatableFields is the allow-list accepted by Service.Update.
var UpdatableFields = map[string]struct{}{
	"name":  {},
	"email": {},
	"phone": {},
}

type UpdateUserRequest struct {
	BadgeCode string
	Fields    map[string]any
}

type Service interface {
	List(context.Context) ([]UserResponse, error)
	GetByBadgeCode(ctx context.Context, badgeCode string) (UserResponse, error)
	Update(context.Context, UpdateUserRequest) (UserResponse, error)
}

var (
	ErrUserNotFound      = apperror.NotFound("user_not_found", "user not found")
	ErrInvalidBadgeCode  = apperror.InvalidArgument("invalid_badge_code", "badge code is required")
	ErrInvalidField      = apperror.InvalidArgument("invalid_update_field", "invalid update field")
	ErrInvalidFieldValue = apperror.InvalidArgument("invalid_field_value", "update value must be a string")
	ErrEmptyUpdate       = apperror.InvalidArgument("empty_update", "no update data provided")
)

package domain

import (
	"context"

	"github.com/smallbiznis/badgescan/internal/apperror"
)

type RecordScanRequest struct {
	BadgeCode        string `json:"-"`
	ActivityName     string `json:"activity_name"`
	ActivityCategory string `json:"activity_category"`
}

type Service interface {
	Record(context.Context, RecordScanRequest) (Scan, error)
}

var (
	ErrInvalidBadgeCode    = apperror.InvalidArgument("invalid_badge_code", "badge code is required")
	ErrInvalidActivityName = apperror.InvalidArgument("invalid_activity_name", "activity_name is required")
)

package domain

import (
	"context"

	"github.com/smallbiznis/badgescan/internal/apperror"
)

type StatsQuery struct {
	MinFrequency *int64
	MaxFrequency *int64
	Category     *string
}

type Service interface {
	QueryStats(context.Context, StatsQuery) ([]ActivityStat, error)
}

var (
	ErrInvalidMinFrequency = apperror.InvalidArgument("invalid_min_frequency", "min_frequency must not be negative")
	ErrInvalidMaxFrequency = apperror.InvalidArgument("invalid_max_frequency", "max_frequency must not be negative")
)

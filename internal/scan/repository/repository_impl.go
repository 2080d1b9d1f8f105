package repository

import (
	"context"

	"github.com/smallbiznis/badgescan/internal/scan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const userScanColumns = `SELECT ua.user_badge_code, ua.activity_name, ua.scanned_at, ac.activity_category
	 FROM user_activities ua
	 JOIN activity_categories ac ON ac.activity_name = ua.activity_name`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, activity *domain.UserActivity) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO user_activities (id, user_badge_code, activity_name, scanned_at)
		 VALUES (?, ?, ?, ?)`,
		activity.ID,
		activity.UserBadgeCode,
		activity.ActivityName,
		activity.ScannedAt,
	).Error
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, badgeCode string) ([]domain.UserScan, error) {
	var scans []domain.UserScan
	err := db.WithContext(ctx).Raw(
		userScanColumns+`
		 WHERE ua.user_badge_code = ?
		 ORDER BY ua.scanned_at ASC, ua.id ASC`,
		badgeCode,
	).Scan(&scans).Error
	if err != nil {
		return nil, err
	}
	return scans, nil
}

func (r *repo) ListByUsers(ctx context.Context, db *gorm.DB, badgeCodes []string) ([]domain.UserScan, error) {
	if len(badgeCodes) == 0 {
		return nil, nil
	}
	var scans []domain.UserScan
	err := db.WithContext(ctx).Raw(
		userScanColumns+`
		 WHERE ua.user_badge_code IN ?
		 ORDER BY ua.user_badge_code ASC, ua.scanned_at ASC, ua.id ASC`,
		badgeCodes,
	).Scan(&scans).Error
	if err != nil {
		return nil, err
	}
	return scans, nil
}

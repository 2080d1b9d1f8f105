package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// UserActivity is one check-in of a user into an activity. Rows are only
// ever appended; repeated scans of the same activity are kept.
type UserActivity struct {
	ID            snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserBadgeCode string       `gorm:"column:user_badge_code;size:64;not null;index" json:"user_badge_code"`
	ActivityName  string       `gorm:"column:activity_name;size:255;not null;index" json:"activity_name"`
	ScannedAt     time.Time    `gorm:"column:scanned_at;not null" json:"scanned_at"`
}

func (UserActivity) TableName() string {
	return "user_activities"
}

// Scan is the public shape of a scan record.
type Scan struct {
	ActivityName     string    `json:"activity_name"`
	ScannedAt        time.Time `json:"scanned_at"`
	ActivityCategory string    `json:"activity_category"`
}

// UserScan is a Scan joined with the badge code that owns it.
type UserScan struct {
	UserBadgeCode    string    `gorm:"column:user_badge_code"`
	ActivityName     string    `gorm:"column:activity_name"`
	ScannedAt        time.Time `gorm:"column:scanned_at"`
	ActivityCategory string    `gorm:"column:activity_category"`
}

func (s UserScan) ToScan() Scan {
	return Scan{
		ActivityName:     s.ActivityName,
		ScannedAt:        s.ScannedAt,
		ActivityCategory: s.ActivityCategory,
	}
}

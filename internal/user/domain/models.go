package domain

import (
	"time"

	scandomain "github.com/smallbiznis/badgescan/internal/scan/domain"
)

// User is an attendee, keyed by the code printed on their badge.
type User struct {
	BadgeCode string    `gorm:"column:badge_code;primaryKey;size:64" json:"badge_code"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Phone     string    `gorm:"not null" json:"phone"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type UserResponse struct {
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	BadgeCode string            `json:"badge_code"`
	UpdatedAt time.Time         `json:"updated_at"`
	Scans     []scandomain.Scan `json:"scans"`
}

func NewUserResponse(u User, scans []scandomain.Scan) UserResponse {
	if scans == nil {
		scans = []scandomain.Scan{}
	}
	return UserResponse{
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		BadgeCode: u.BadgeCode,
		UpdatedAt: u.UpdatedAt,
		Scans:     scans,
	}
}

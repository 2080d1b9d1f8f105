package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Friendship is an undirected edge between two users. The pair is stored
// with the lexicographically smaller badge code in BadgeCodeA so that
// idx_friendships_pair rejects the same edge in either order.
type Friendship struct {
	ID         snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id"`
	BadgeCodeA string       `gorm:"column:badge_code_a;size:64;not null;uniqueIndex:idx_friendships_pair,priority:1;index:idx_friendships_a" json:"badge_code_a"`
	BadgeCodeB string       `gorm:"column:badge_code_b;size:64;not null;uniqueIndex:idx_friendships_pair,priority:2;index:idx_friendships_b" json:"badge_code_b"`
	CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// NormalizePair orders two badge codes the way they are stored.
func NormalizePair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Other returns the side of the edge that is not badgeCode.
func (f Friendship) Other(badgeCode string) string {
	if f.BadgeCodeA == badgeCode {
		return f.BadgeCodeB
	}
	return f.BadgeCodeA
}

type Friend struct {
	Friend       string    `json:"friend"`
	FriendsSince time.Time `json:"friends_since"`
}

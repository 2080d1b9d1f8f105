// Package events publishes domain events after a write has committed.
// Publishing is best-effort: callers log a failed publish and move on.
package events

import (
	"context"
	"time"
)

const (
	TypeScanRecorded      = "scan.recorded"
	TypeFriendshipCreated = "friendship.created"
	TypeFriendshipRemoved = "friendship.removed"
)

type Event struct {
	Type       string         `json:"type"`
	Key        string         `json:"key"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}

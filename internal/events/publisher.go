package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types published by the prompt service.
const (
	EventPromptCreated       = "prompt.created"
	EventPromptUpdated       = "prompt.updated"
	EventPromptDeleted       = "prompt.deleted"
	EventPromptLiked         = "prompt.liked"
	EventProfileRoleAssigned = "profile.role_assigned"
)

// Source identifies this service on the event bus.
const Source = "prompt-service"

// Version of the event envelope schema.
const Version = "1.0"

// Event is the envelope for every domain event.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with a fresh ID and the current timestamp.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    Source,
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events. Implementations must be safe for
// concurrent use.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// PromptEvent is the payload for prompt lifecycle events.
type PromptEvent struct {
	PromptID  uint   `json:"prompt_id"`
	Title     string `json:"title,omitempty"`
	Category  string `json:"category,omitempty"`
	ActorID   string `json:"actor_id,omitempty"`
	LikeCount int    `json:"like_count,omitempty"`
}

// RoleAssignedEvent is the payload for privileged role changes.
type RoleAssignedEvent struct {
	UserID     string     `json:"user_id"`
	Role       string     `json:"role"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	AssignedBy string     `json:"assigned_by"`
}

package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeUserRegistered   Type = "user.registered"
	TypeLoginSucceeded   Type = "auth.login_succeeded"
	TypeLoginFailed      Type = "auth.login_failed"
	TypeSessionRefreshed Type = "auth.session_refreshed"
	TypeRefreshReplayed  Type = "auth.refresh_replayed"
	TypeLoggedOut        Type = "auth.logged_out"
	TypeBookCreated      Type = "book.created"
	TypeBookUpdated      Type = "book.updated"
	TypeBookDeleted      Type = "book.deleted"
)

type Event struct {
	ID        string            `json:"id"`
	Type      Type              `json:"type"`
	ActorID   string            `json:"actor_id,omitempty"` // Who triggered the event
	Payload   map[string]string `json:"payload,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func New(t Type, actorID string, payload map[string]string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		ActorID:   actorID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(e Event)
}

type Bus interface {
	Publisher
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}

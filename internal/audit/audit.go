package audit

import (
	"context"
	"fmt"
	"time"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Entry is one "action succeeded for entity ID" record.
type Entry struct {
	Entity     string    `json:"entity"`
	EntityID   int64     `json:"entity_id"`
	ScopeID    int64     `json:"scope_id,omitempty"`
	Action     Action    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEntry(entity string, id, scopeID int64, action Action) Entry {
	return Entry{
		Entity:     entity,
		EntityID:   id,
		ScopeID:    scopeID,
		Action:     action,
		OccurredAt: time.Now(),
	}
}

// Message renders the single-line audit text.
func (e Entry) Message() string {
	return fmt.Sprintf("The %s with the ID %d has %s successfully.", e.Entity, e.EntityID, e.Action)
}

// Recorder accepts audit entries. Implementations never fail the caller.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

// Sink writes entries somewhere durable.
type Sink interface {
	Write(ctx context.Context, entry Entry) error
}

// SinkFunc adapts a plain function to a Sink.
type SinkFunc func(ctx context.Context, entry Entry) error

func (f SinkFunc) Write(ctx context.Context, entry Entry) error {
	return f(ctx, entry)
}

type Nop struct{}

func (Nop) Record(context.Context, Entry) {}

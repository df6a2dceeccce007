package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventItemEnter  EventType = "item_enter"
	EventRecordSave EventType = "record_save"
	EventTokenize   EventType = "tokenize"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ItemEvent is emitted whenever the session lands on an item.
type ItemEvent struct {
	EventBase
	ItemID    string `json:"item_id"`
	Index     int    `json:"index"`
	Total     int    `json:"total"`
	Direction string `json:"direction"` // "resume", "next" or "prev"
	Moved     bool   `json:"moved"`
}

// RecordEvent is emitted after a record is persisted.
type RecordEvent struct {
	EventBase
	ItemID  string `json:"item_id"`
	Skipped bool   `json:"skipped"`
	Triples int    `json:"triples"` // rows with at least one token
}

// TokenizeEvent reports a TokenProvider call.
type TokenizeEvent struct {
	EventBase
	ItemID   string        `json:"item_id"`
	Turns    int           `json:"turns"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for session observability.
type LifecycleHooks struct {
	OnItemEnter  func(context.Context, *ItemEvent)
	OnRecordSave func(context.Context, *RecordEvent)
	OnTokenize   func(context.Context, *TokenizeEvent)
}

// Merge returns hooks calling h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnItemEnter: func(ctx context.Context, e *ItemEvent) {
			if h.OnItemEnter != nil {
				h.OnItemEnter(ctx, e)
			}
			if other.OnItemEnter != nil {
				other.OnItemEnter(ctx, e)
			}
		},
		OnRecordSave: func(ctx context.Context, e *RecordEvent) {
			if h.OnRecordSave != nil {
				h.OnRecordSave(ctx, e)
			}
			if other.OnRecordSave != nil {
				other.OnRecordSave(ctx, e)
			}
		},
		OnTokenize: func(ctx context.Context, e *TokenizeEvent) {
			if h.OnTokenize != nil {
				h.OnTokenize(ctx, e)
			}
			if other.OnTokenize != nil {
				other.OnTokenize(ctx, e)
			}
		},
	}
}

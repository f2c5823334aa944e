package events

import (
	"time"

	"statesapi/domain/core/valueobjects"

	"github.com/google/uuid"
)

// Event types
const (
	TypeFunFactsAppended = "funfacts.appended"
	TypeFunFactUpdated   = "funfacts.updated"
	TypeFunFactRemoved   = "funfacts.removed"
)

// SourceStatesAPI identifies this service as the event source
const SourceStatesAPI = "states-api"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBaseEvent(code valueobjects.StateCode, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: code.String(),
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
	}
}

// FunFactsAppended is raised when facts are added to a state's list
type FunFactsAppended struct {
	BaseEvent
	StateCode valueobjects.StateCode `json:"state_code"`
	Added     []string               `json:"added"`
	Total     int                    `json:"total"`
}

// NewFunFactsAppended creates a FunFactsAppended event
func NewFunFactsAppended(code valueobjects.StateCode, added []string, total int, timestamp time.Time) FunFactsAppended {
	return FunFactsAppended{
		BaseEvent: newBaseEvent(code, TypeFunFactsAppended, timestamp),
		StateCode: code,
		Added:     added,
		Total:     total,
	}
}

// FunFactUpdated is raised when the fact at an index is overwritten
type FunFactUpdated struct {
	BaseEvent
	StateCode valueobjects.StateCode `json:"state_code"`
	Index     int                    `json:"index"`
	OldFact   string                 `json:"old_fact"`
	NewFact   string                 `json:"new_fact"`
}

// NewFunFactUpdated creates a FunFactUpdated event
func NewFunFactUpdated(code valueobjects.StateCode, index int, oldFact, newFact string, timestamp time.Time) FunFactUpdated {
	return FunFactUpdated{
		BaseEvent: newBaseEvent(code, TypeFunFactUpdated, timestamp),
		StateCode: code,
		Index:     index,
		OldFact:   oldFact,
		NewFact:   newFact,
	}
}

// FunFactRemoved is raised when the fact at an index is deleted
type FunFactRemoved struct {
	BaseEvent
	StateCode valueobjects.StateCode `json:"state_code"`
	Index     int                    `json:"index"`
	Fact      string                 `json:"fact"`
	Remaining int                    `json:"remaining"`
}

// NewFunFactRemoved creates a FunFactRemoved event
func NewFunFactRemoved(code valueobjects.StateCode, index int, fact string, remaining int, timestamp time.Time) FunFactRemoved {
	return FunFactRemoved{
		BaseEvent: newBaseEvent(code, TypeFunFactRemoved, timestamp),
		StateCode: code,
		Index:     index,
		Fact:      fact,
		Remaining: remaining,
	}
}

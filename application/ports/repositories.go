package ports

import (
	"context"
	"errors"
	"time"

	"statesapi/domain/core/entities"
	"statesapi/domain/core/valueobjects"
	"statesapi/domain/events"
)

// Repository sentinel errors. Adapters translate driver-specific
// conditions into these so the service layer stays store-agnostic.
var (
	ErrDocumentNotFound = errors.New("fact document not found")
	ErrDocumentExists   = errors.New("fact document already exists")
)

// FactRepository defines the interface for fun fact persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type FactRepository interface {
	// FindAll returns every stored fact document
	FindAll(ctx context.Context) ([]*entities.FactDocument, error)

	// FindByCode returns the document for a state or ErrDocumentNotFound
	FindByCode(ctx context.Context, code valueobjects.StateCode) (*entities.FactDocument, error)

	// Create inserts a new document; ErrDocumentExists if the state already has one
	Create(ctx context.Context, doc *entities.FactDocument) error

	// Save persists the whole document after an in-memory mutation
	Save(ctx context.Context, doc *entities.FactDocument) error

	// Count returns the number of stored documents
	Count(ctx context.Context) (int64, error)

	// InsertMany inserts documents in bulk, used for seeding
	InsertMany(ctx context.Context, docs []*entities.FactDocument) error

	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// OperationRecorder records the outcome and latency of named operations
type OperationRecorder interface {
	RecordOperation(ctx context.Context, operation string, duration time.Duration, err error)
}

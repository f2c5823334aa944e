// Package messaging holds event publishers that need no external bus.
package messaging

import (
	"context"
	"errors"

	"statesapi/application/ports"
	"statesapi/domain/events"

	"go.uber.org/zap"
)

// LogPublisher writes events to the log instead of a bus
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a new LogPublisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs a single event
func (p *LogPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Debug("Domain event",
		zap.String("event_id", event.GetEventID()),
		zap.String("event_type", event.GetEventType()),
		zap.String("state", event.GetAggregateID()),
		zap.Time("timestamp", event.GetTimestamp()),
	)
	return nil
}

// PublishBatch logs each event
func (p *LogPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	for _, event := range evts {
		_ = p.Publish(ctx, event)
	}
	return nil
}

// FanoutPublisher delivers each event to every publisher, joining errors
type FanoutPublisher []ports.EventPublisher

// Publish sends the event to all publishers
func (f FanoutPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishBatch sends the batch to all publishers
func (f FanoutPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishBatch(ctx, evts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ ports.EventPublisher = (*LogPublisher)(nil)
	_ ports.EventPublisher = FanoutPublisher(nil)
)

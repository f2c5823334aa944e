// Package resilient decorates a FactRepository with a circuit breaker,
// operation metrics and tracing subsegments.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"statesapi/application/ports"
	"statesapi/domain/core/entities"
	"statesapi/domain/core/valueobjects"
	"statesapi/pkg/observability"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the store circuit breaker
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// Failure ratio at which the breaker opens, once MinRequests is reached
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for the circuit breaker
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// StateListener is notified when the breaker changes state
type StateListener interface {
	SetBreakerState(name string, state int)
}

// FactRepository wraps another repository. While the breaker is open, calls
// fail fast without reaching the store.
type FactRepository struct {
	next     ports.FactRepository
	breaker  *gobreaker.CircuitBreaker
	recorder ports.OperationRecorder
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// NewFactRepository creates the decorator. recorder, listener and tracer may be nil.
func NewFactRepository(
	next ports.FactRepository,
	config BreakerConfig,
	recorder ports.OperationRecorder,
	listener StateListener,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *FactRepository {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if listener != nil {
				listener.SetBreakerState(name, int(to))
			}
		},
		IsSuccessful: isSuccessful,
	})

	return &FactRepository{
		next:     next,
		breaker:  breaker,
		recorder: recorder,
		tracer:   tracer,
		logger:   logger,
	}
}

// Expected outcomes of a healthy store do not count against it
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, ports.ErrDocumentNotFound) ||
		errors.Is(err, ports.ErrDocumentExists) ||
		errors.Is(err, context.Canceled)
}

// State returns the breaker state name
func (r *FactRepository) State() string {
	return r.breaker.State().String()
}

// execute runs fn through the breaker inside a tracing subsegment. A
// non-zero code is annotated on the subsegment.
func (r *FactRepository) execute(ctx context.Context, operation string, code valueobjects.StateCode, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	start := time.Now()

	var result interface{}
	err := r.tracer.TraceFunction(ctx, "store."+operation, func(ctx context.Context) error {
		if !code.IsZero() {
			r.tracer.AddAnnotation(ctx, "state", code.String())
		}
		var execErr error
		result, execErr = r.breaker.Execute(func() (interface{}, error) {
			return fn(ctx)
		})
		return execErr
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("fact store unavailable: %w", err)
	}

	if r.recorder != nil {
		recorded := err
		if isSuccessful(err) {
			recorded = nil
		}
		r.recorder.RecordOperation(ctx, operation, time.Since(start), recorded)
	}
	return result, err
}

// FindAll returns every document
func (r *FactRepository) FindAll(ctx context.Context) ([]*entities.FactDocument, error) {
	result, err := r.execute(ctx, "FindAll", valueobjects.StateCode{}, func(ctx context.Context) (interface{}, error) {
		return r.next.FindAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*entities.FactDocument), nil
}

// FindByCode returns one state's document
func (r *FactRepository) FindByCode(ctx context.Context, code valueobjects.StateCode) (*entities.FactDocument, error) {
	result, err := r.execute(ctx, "FindByCode", code, func(ctx context.Context) (interface{}, error) {
		return r.next.FindByCode(ctx, code)
	})
	if err != nil {
		return nil, err
	}
	return result.(*entities.FactDocument), nil
}

// Create inserts a new document
func (r *FactRepository) Create(ctx context.Context, doc *entities.FactDocument) error {
	_, err := r.execute(ctx, "Create", doc.StateCode(), func(ctx context.Context) (interface{}, error) {
		return nil, r.next.Create(ctx, doc)
	})
	return err
}

// Save persists a mutated document
func (r *FactRepository) Save(ctx context.Context, doc *entities.FactDocument) error {
	_, err := r.execute(ctx, "Save", doc.StateCode(), func(ctx context.Context) (interface{}, error) {
		return nil, r.next.Save(ctx, doc)
	})
	return err
}

// Count returns the number of documents
func (r *FactRepository) Count(ctx context.Context) (int64, error) {
	result, err := r.execute(ctx, "Count", valueobjects.StateCode{}, func(ctx context.Context) (interface{}, error) {
		return r.next.Count(ctx)
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// InsertMany inserts documents in bulk
func (r *FactRepository) InsertMany(ctx context.Context, docs []*entities.FactDocument) error {
	_, err := r.execute(ctx, "InsertMany", valueobjects.StateCode{}, func(ctx context.Context) (interface{}, error) {
		return nil, r.next.InsertMany(ctx, docs)
	})
	return err
}

// Ping bypasses the breaker so readiness reflects the store itself
func (r *FactRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

var _ ports.FactRepository = (*FactRepository)(nil)

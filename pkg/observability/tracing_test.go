package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracer_DisabledRunsFunction(t *testing.T) {
	tracer := NewTracer("states-api", false)
	called := false

	err := tracer.TraceFunction(context.Background(), "op", func(ctx context.Context) error {
		called = true
		return errors.New("boom")
	})

	assert.True(t, called)
	assert.EqualError(t, err, "boom")
	assert.False(t, tracer.Enabled())
}

func TestTracer_NoSegmentRunsFunction(t *testing.T) {
	tracer := NewTracer("states-api", true)
	called := false

	err := tracer.TraceFunction(context.Background(), "op", func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
	tracer.AddAnnotation(context.Background(), "state", "KS")
}

func TestTracer_NilIsDisabled(t *testing.T) {
	var tracer *Tracer
	assert.False(t, tracer.Enabled())
}

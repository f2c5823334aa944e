package di

import (
	"context"
	"testing"

	"statesapi/infrastructure/config"
	"statesapi/infrastructure/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	cfg := config.Default()
	cfg.StoreDriver = config.StoreMemory
	cfg.LogLevel = "error"
	return cfg
}

func TestInitializeContainer_Memory(t *testing.T) {
	container, cleanup, err := InitializeContainer(context.Background(), memoryConfig())
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, 50, container.Dataset.Len())
	assert.NotNil(t, container.StateService)
	assert.Equal(t, "closed", container.Store.State())
	require.NoError(t, container.FactRepo.Ping(context.Background()))

	n, err := container.Seeder.SeedIfEmpty(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestProvideLogger_RejectsBadLevel(t *testing.T) {
	cfg := memoryConfig()
	cfg.LogLevel = "loud"

	_, _, err := ProvideLogger(cfg)
	assert.Error(t, err)
}

func TestProvideEventPublisher(t *testing.T) {
	cfg := memoryConfig()
	logger, cleanup, err := ProvideLogger(cfg)
	require.NoError(t, err)
	defer cleanup()
	collector := ProvideCollector(cfg)

	publisher := ProvideEventPublisher(cfg, nil, collector, logger)
	fanout, ok := publisher.(messaging.FanoutPublisher)
	require.True(t, ok)
	assert.Len(t, fanout, 2)

	cfg.EnableMetrics = false
	fanout = ProvideEventPublisher(cfg, nil, collector, logger).(messaging.FanoutPublisher)
	require.Len(t, fanout, 1)
	assert.IsType(t, &messaging.LogPublisher{}, fanout[0])
}

func TestProvideOperationRecorder(t *testing.T) {
	cfg := memoryConfig()
	collector := ProvideCollector(cfg)

	assert.Same(t, collector, ProvideOperationRecorder(cfg, collector, nil, nil))

	cfg.EnableMetrics = false
	assert.Nil(t, ProvideOperationRecorder(cfg, collector, nil, nil))
}

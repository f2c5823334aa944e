//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"statesapi/application/ports"
	"statesapi/infrastructure/config"
	"statesapi/infrastructure/persistence/resilient"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDataset,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideCollector,
	ProvideTracer,
	ProvideOperationRecorder,
	ProvideFactStore,
	wire.Bind(new(ports.FactRepository), new(*resilient.FactRepository)),
	ProvideEventPublisher,
	ProvideStateService,
	ProvideSeeder,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil
}

package di

import (
	"statesapi/application/ports"
	"statesapi/application/services"
	"statesapi/domain/reference"
	"statesapi/infrastructure/config"
	"statesapi/infrastructure/persistence/resilient"
	"statesapi/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Dataset      *reference.Dataset
	Store        *resilient.FactRepository
	FactRepo     ports.FactRepository
	Publisher    ports.EventPublisher
	StateService *services.StateService
	Seeder       *services.Seeder
	Metrics      *observability.Collector
	Tracer       *observability.Tracer
}

package di

import (
	"context"
	"fmt"
	"time"

	"statesapi/application/ports"
	"statesapi/application/services"
	"statesapi/domain/reference"
	"statesapi/infrastructure/config"
	"statesapi/infrastructure/messaging"
	"statesapi/infrastructure/messaging/eventbridge"
	"statesapi/infrastructure/persistence/dynamodb"
	"statesapi/infrastructure/persistence/memory"
	"statesapi/infrastructure/persistence/mongodb"
	"statesapi/infrastructure/persistence/resilient"
	"statesapi/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName identifies the API in traces and CloudWatch namespaces
const ServiceName = "states-api"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	var zapCfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, nil, err
	}
	logger = logger.With(zap.String("service", ServiceName))

	cleanup := func() {
		_ = logger.Sync()
	}
	return logger, cleanup, nil
}

// ProvideDataset loads the bundled state reference data
func ProvideDataset() (*reference.Dataset, error) {
	return reference.Load()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client. Store calls are never
// retried; a failed call surfaces as a 500 to the client.
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		o.Retryer = aws.NopRetryer{}
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector(cfg *config.Config) *observability.Collector {
	return observability.NewCollector(cfg.MetricsNamespace)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(ServiceName, cfg.EnableTracing)
}

// ProvideOperationRecorder selects where store operation metrics go.
// Lambda has no scrape endpoint, so CloudWatch is added there.
func ProvideOperationRecorder(
	cfg *config.Config,
	collector *observability.Collector,
	cwClient *awscloudwatch.Client,
	logger *zap.Logger,
) ports.OperationRecorder {
	if !cfg.EnableMetrics {
		return nil
	}
	if cfg.IsLambda {
		namespace := fmt.Sprintf("StatesAPI/%s", cfg.Environment)
		return observability.MultiRecorder{
			collector,
			observability.NewCloudWatchMetrics(namespace, cwClient, logger),
		}
	}
	return collector
}

// ProvideFactStore opens the configured backend and wraps it with the
// circuit breaker
func ProvideFactStore(
	ctx context.Context,
	cfg *config.Config,
	ddbClient *awsdynamodb.Client,
	recorder ports.OperationRecorder,
	collector *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*resilient.FactRepository, func(), error) {
	var (
		backend ports.FactRepository
		cleanup = func() {}
	)

	switch cfg.StoreDriver {
	case config.StoreDynamoDB:
		backend = dynamodb.NewFactRepository(ddbClient, cfg.DynamoDBTable, logger)
	case config.StoreMongoDB:
		repo, closeFn, err := openMongo(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		backend, cleanup = repo, closeFn
	case config.StoreMemory:
		backend = memory.NewFactRepository()
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	logger.Info("Fact store configured", zap.String("driver", cfg.StoreDriver))

	breakerCfg := resilient.BreakerConfig{
		Name:             "fact-store",
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
		MinRequests:      cfg.Breaker.MinRequests,
	}
	store := resilient.NewFactRepository(backend, breakerCfg, recorder, collector, tracer, logger)
	return store, cleanup, nil
}

func openMongo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*mongodb.FactRepository, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	repo := mongodb.NewFactRepository(client, cfg.MongoDatabase, cfg.MongoCollection, logger)
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Warn("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}
	return repo, cleanup, nil
}

// ProvideEventPublisher fans events out to the metrics collector and to
// EventBridge, or to the log when no bus is configured
func ProvideEventPublisher(
	cfg *config.Config,
	ebClient *awseventbridge.Client,
	collector *observability.Collector,
	logger *zap.Logger,
) ports.EventPublisher {
	var publishers messaging.FanoutPublisher
	if cfg.EnableMetrics {
		publishers = append(publishers, collector)
	}
	if cfg.EventBusName != "" {
		publishers = append(publishers, eventbridge.NewPublisher(ebClient, cfg.EventBusName, logger))
	} else {
		publishers = append(publishers, messaging.NewLogPublisher(logger))
	}
	return publishers
}

// ProvideStateService creates the state service
func ProvideStateService(
	dataset *reference.Dataset,
	store ports.FactRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *services.StateService {
	return services.NewStateService(dataset, store, publisher, logger)
}

// ProvideSeeder creates the seeder
func ProvideSeeder(store ports.FactRepository, logger *zap.Logger) *services.Seeder {
	return services.NewSeeder(store, logger)
}

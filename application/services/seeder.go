package services

import (
	"context"
	"fmt"
	"time"

	"statesapi/application/ports"
	"statesapi/domain/reference"

	"go.uber.org/zap"
)

// Seeder inserts the default fact documents into an empty store
type Seeder struct {
	facts  ports.FactRepository
	logger *zap.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(facts ports.FactRepository, logger *zap.Logger) *Seeder {
	return &Seeder{facts: facts, logger: logger}
}

// SeedIfEmpty inserts the default documents when the store holds none.
// It returns the number of documents inserted.
func (s *Seeder) SeedIfEmpty(ctx context.Context) (int, error) {
	start := time.Now()

	count, err := s.facts.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count fact documents: %w", err)
	}
	if count > 0 {
		s.logger.Info("Fact store already populated, skipping seed", zap.Int64("documents", count))
		return 0, nil
	}

	docs := reference.DefaultFactDocuments()
	if err := s.facts.InsertMany(ctx, docs); err != nil {
		return 0, fmt.Errorf("failed to insert seed documents: %w", err)
	}

	s.logger.Info("Seeded fact store",
		zap.Int("documents", len(docs)),
		zap.Duration("duration", time.Since(start)),
	)
	return len(docs), nil
}

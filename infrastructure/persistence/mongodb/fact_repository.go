// Package mongodb stores fact documents in a MongoDB collection using the
// legacy statesFunFacts field names (stateCode, funfacts), so existing data
// can be served unchanged.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"statesapi/application/ports"
	"statesapi/domain/core/entities"
	"statesapi/domain/core/valueobjects"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// factRecord is the stored shape of a fact document
type factRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	StateCode string             `bson:"stateCode"`
	FunFacts  []string           `bson:"funfacts"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty"`
}

func toRecord(doc *entities.FactDocument) factRecord {
	facts := doc.Facts()
	if facts == nil {
		facts = []string{}
	}
	return factRecord{
		StateCode: doc.StateCode().String(),
		FunFacts:  facts,
		UpdatedAt: doc.UpdatedAt().UTC(),
	}
}

func fromRecord(rec factRecord) (*entities.FactDocument, error) {
	return entities.ReconstructFactDocument(rec.StateCode, rec.FunFacts, rec.UpdatedAt)
}

// FactRepository implements ports.FactRepository on a MongoDB collection
type FactRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewFactRepository creates a new FactRepository
func NewFactRepository(client *mongo.Client, database, collection string, logger *zap.Logger) *FactRepository {
	return &FactRepository{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger,
	}
}

// EnsureIndexes creates the unique index on stateCode
func (r *FactRepository) EnsureIndexes(ctx context.Context) error {
	name, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "stateCode", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("stateCode_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create stateCode index: %w", err)
	}
	r.logger.Debug("Ensured index", zap.String("index", name))
	return nil
}

// FindAll returns every fact document
func (r *FactRepository) FindAll(ctx context.Context) ([]*entities.FactDocument, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to find fact documents: %w", err)
	}

	var records []factRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode fact documents: %w", err)
	}

	docs := make([]*entities.FactDocument, 0, len(records))
	for _, rec := range records {
		doc, err := fromRecord(rec)
		if err != nil {
			r.logger.Warn("Skipping malformed fact document",
				zap.String("id", rec.ID.Hex()),
				zap.Error(err),
			)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FindByCode returns the document for a state or ports.ErrDocumentNotFound
func (r *FactRepository) FindByCode(ctx context.Context, code valueobjects.StateCode) (*entities.FactDocument, error) {
	var rec factRecord
	err := r.collection.FindOne(ctx, bson.M{"stateCode": code.String()}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ports.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find fact document: %w", err)
	}
	return fromRecord(rec)
}

// Create inserts a new document; the unique index turns a second insert
// for the same state into ports.ErrDocumentExists
func (r *FactRepository) Create(ctx context.Context, doc *entities.FactDocument) error {
	if _, err := r.collection.InsertOne(ctx, toRecord(doc)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ports.ErrDocumentExists
		}
		return fmt.Errorf("failed to insert fact document: %w", err)
	}
	return nil
}

// Save replaces the stored list for the document's state
func (r *FactRepository) Save(ctx context.Context, doc *entities.FactDocument) error {
	rec := toRecord(doc)
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"stateCode": rec.StateCode},
		bson.M{"$set": bson.M{"funfacts": rec.FunFacts, "updatedAt": rec.UpdatedAt}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save fact document: %w", err)
	}
	return nil
}

// Count returns the number of stored documents
func (r *FactRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count fact documents: %w", err)
	}
	return n, nil
}

// InsertMany inserts documents in one ordered batch
func (r *FactRepository) InsertMany(ctx context.Context, docs []*entities.FactDocument) error {
	if len(docs) == 0 {
		return nil
	}
	records := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		records = append(records, toRecord(doc))
	}
	if _, err := r.collection.InsertMany(ctx, records); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ports.ErrDocumentExists
		}
		return fmt.Errorf("failed to insert fact documents: %w", err)
	}
	return nil
}

// Ping checks the primary is reachable
func (r *FactRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

var _ ports.FactRepository = (*FactRepository)(nil)

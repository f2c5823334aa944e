package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"statesapi/application/ports"
	"statesapi/domain/core/entities"
	"statesapi/domain/core/valueobjects"
	"statesapi/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	entityTypeFunFacts = "FUNFACTS"
	sortKeyFunFacts    = "FUNFACTS"

	// BatchWriteItem accepts at most 25 requests
	maxBatchWrite = 25
	// Resubmissions of unprocessed batch items before giving up
	maxUnprocessedAttempts = 3
)

// Client is the subset of the DynamoDB API the fact repository uses
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// FactRepository implements ports.FactRepository on a single DynamoDB table.
// Each state's list is one item keyed PK=STATE#<code>, SK=FUNFACTS.
type FactRepository struct {
	client    Client
	tableName string
	logger    *zap.Logger
}

// NewFactRepository creates a new FactRepository
func NewFactRepository(client Client, tableName string, logger *zap.Logger) *FactRepository {
	return &FactRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// factItem represents the DynamoDB item structure for a fact document
type factItem struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	EntityType string   `dynamodbav:"EntityType"`
	StateCode  string   `dynamodbav:"StateCode"`
	Facts      []string `dynamodbav:"Facts"`
	UpdatedAt  string   `dynamodbav:"UpdatedAt"`
}

func partitionKey(code string) string {
	return fmt.Sprintf("STATE#%s", code)
}

func itemKey(code valueobjects.StateCode) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: partitionKey(code.String())},
		"SK": &types.AttributeValueMemberS{Value: sortKeyFunFacts},
	}
}

func toItem(doc *entities.FactDocument) factItem {
	facts := doc.Facts()
	if facts == nil {
		facts = []string{}
	}
	return factItem{
		PK:         partitionKey(doc.StateCode().String()),
		SK:         sortKeyFunFacts,
		EntityType: entityTypeFunFacts,
		StateCode:  doc.StateCode().String(),
		Facts:      facts,
		UpdatedAt:  utils.FormatTimestamp(doc.UpdatedAt()),
	}
}

func fromItem(item factItem) (*entities.FactDocument, error) {
	code := item.StateCode
	if code == "" {
		code = strings.TrimPrefix(item.PK, "STATE#")
	}
	updatedAt := utils.ParseTimestamp(item.UpdatedAt)
	return entities.ReconstructFactDocument(code, item.Facts, updatedAt)
}

func marshalDocument(doc *entities.FactDocument) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(toItem(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fact document: %w", err)
	}
	return av, nil
}

// FindAll scans every fact document in the table
func (r *FactRepository) FindAll(ctx context.Context) ([]*entities.FactDocument, error) {
	filter := expression.Name("EntityType").Equal(expression.Value(entityTypeFunFacts))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter expression: %w", err)
	}

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	var docs []*entities.FactDocument
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fact documents: %w", err)
		}

		var items []factItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fact documents: %w", err)
		}
		for _, item := range items {
			doc, err := fromItem(item)
			if err != nil {
				r.logger.Warn("Skipping malformed fact document",
					zap.String("pk", item.PK),
					zap.Error(err),
				)
				continue
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// FindByCode returns the document for a state or ports.ErrDocumentNotFound
func (r *FactRepository) FindByCode(ctx context.Context, code valueobjects.StateCode) (*entities.FactDocument, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            itemKey(code),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get fact document: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ports.ErrDocumentNotFound
	}

	var item factItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fact document: %w", err)
	}
	return fromItem(item)
}

// Create writes a new document, failing with ports.ErrDocumentExists when
// the state already has one
func (r *FactRepository) Create(ctx context.Context, doc *entities.FactDocument) error {
	av, err := marshalDocument(doc)
	if err != nil {
		return err
	}

	cond := expression.Name("PK").AttributeNotExists()
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build condition expression: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ports.ErrDocumentExists
		}
		return fmt.Errorf("failed to create fact document: %w", err)
	}

	r.logger.Debug("Created fact document",
		zap.String("state", doc.StateCode().String()),
		zap.Int("facts", doc.Len()),
	)
	return nil
}

// Save overwrites the whole document
func (r *FactRepository) Save(ctx context.Context, doc *entities.FactDocument) error {
	av, err := marshalDocument(doc)
	if err != nil {
		return err
	}

	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("failed to save fact document: %w", err)
	}
	return nil
}

// Count returns the number of fact documents in the table
func (r *FactRepository) Count(ctx context.Context) (int64, error) {
	filter := expression.Name("EntityType").Equal(expression.Value(entityTypeFunFacts))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return 0, fmt.Errorf("failed to build filter expression: %w", err)
	}

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		Select:                    types.SelectCount,
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	var total int64
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count fact documents: %w", err)
		}
		total += int64(page.Count)
	}
	return total, nil
}

// InsertMany writes documents in BatchWriteItem chunks
func (r *FactRepository) InsertMany(ctx context.Context, docs []*entities.FactDocument) error {
	for start := 0; start < len(docs); start += maxBatchWrite {
		end := start + maxBatchWrite
		if end > len(docs) {
			end = len(docs)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, doc := range docs[start:end] {
			av, err := marshalDocument(doc)
			if err != nil {
				return err
			}
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
		}

		if err := r.writeBatch(ctx, requests); err != nil {
			return err
		}
	}
	return nil
}

func (r *FactRepository) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{r.tableName: requests}
	for attempt := 0; attempt < maxUnprocessedAttempts; attempt++ {
		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("failed to batch write fact documents: %w", err)
		}
		if len(out.UnprocessedItems[r.tableName]) == 0 {
			return nil
		}
		pending = out.UnprocessedItems
		r.logger.Warn("Resubmitting unprocessed fact documents",
			zap.Int("count", len(pending[r.tableName])),
			zap.Int("attempt", attempt+1),
		)
	}
	return fmt.Errorf("failed to write %d fact documents after %d attempts", len(pending[r.tableName]), maxUnprocessedAttempts)
}

// Ping checks the table is reachable
func (r *FactRepository) Ping(ctx context.Context) error {
	if _, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	}); err != nil {
		return fmt.Errorf("failed to describe table %s: %w", r.tableName, err)
	}
	return nil
}

var _ ports.FactRepository = (*FactRepository)(nil)

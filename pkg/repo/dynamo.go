package repo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// dynamoAPI is the subset of *dynamodb.Client the store uses.
type dynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore keeps one item per key in a table whose partition key is
// user_ern.
type DynamoStore[V any] struct {
	client dynamoAPI
	table  string
}

// NewDynamoStore wraps a DynamoDB client.
func NewDynamoStore[V any](client *dynamodb.Client, table string) *DynamoStore[V] {
	return newDynamoStore[V](client, table)
}

func newDynamoStore[V any](client dynamoAPI, table string) *DynamoStore[V] {
	if table == "" {
		table = DefaultTable
	}
	return &DynamoStore[V]{client: client, table: table}
}

// OpenDynamo loads the default AWS configuration for region. A non-empty
// endpoint points the client at a local DynamoDB.
func OpenDynamo[V any](ctx context.Context, region, endpoint, table string) (*DynamoStore[V], error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("dynamodb: load config: %w", err)
	}
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewDynamoStore[V](client, table), nil
}

var _ Store[any] = (*DynamoStore[any])(nil)

func dynamoKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{KeyAttr: &types.AttributeValueMemberS{Value: key}}
}

func (s *DynamoStore[V]) Put(ctx context.Context, key string, v V) error {
	item, err := attributevalue.MarshalMap(Record[V]{Key: key, Value: v})
	if err != nil {
		return fmt.Errorf("dynamodb: encode %s: %w", key, err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return err
}

func (s *DynamoStore[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       dynamoKey(key),
	})
	if err != nil {
		return zero, err
	}
	if len(out.Item) == 0 {
		return zero, ErrNotFound
	}
	var rec Record[V]
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return zero, fmt.Errorf("dynamodb: decode %s: %w", key, err)
	}
	return rec.Value, nil
}

func (s *DynamoStore[V]) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       dynamoKey(key),
	})
	return err
}

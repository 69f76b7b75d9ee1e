package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/verify-bot/internal/domain"
)

// CodeRepo is the durable key-value store holding all verification state.
// It is the only state shared across handler invocations; every item
// carries an expires_at attribute enforced as the table's TTL.
type CodeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCodeRepo(client *dynamodb.Client, tableName string) *CodeRepo {
	return &CodeRepo{client: client, tableName: tableName}
}

// Put writes value under key so that it reads as absent once ttl elapses.
// An existing item under the same key is overwritten.
func (r *CodeRepo) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	item, err := attributevalue.MarshalMap(&domain.StoreItem{
		Key:       key,
		Value:     value,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal store item: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Get returns the value stored under key, or an error wrapping
// domain.ErrNotFound when the key is absent or past its TTL.
func (r *CodeRepo) Get(ctx context.Context, key string) (string, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("k", key),
	})
	if err != nil {
		return "", err
	}
	if out.Item == nil {
		return "", fmt.Errorf("key %s: %w", key, domain.ErrNotFound)
	}
	var item domain.StoreItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return "", err
	}
	// The TTL sweeper deletes lazily; an expired item that is still
	// physically present must read as absent.
	if item.ExpiresAt <= time.Now().Unix() {
		return "", fmt.Errorf("key %s: %w", key, domain.ErrNotFound)
	}
	return item.Value, nil
}

func (r *CodeRepo) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("k", key),
	})
	return err
}

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

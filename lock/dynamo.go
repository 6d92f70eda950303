package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

const (
	defaultTTL     = 30 * time.Second
	releaseTimeout = 5 * time.Second
)

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoLock guards a resource with a DynamoDB item, for writers that share
// nothing but object storage. Acquisition is a conditional put on the lock
// key; a lock whose expiry has passed counts as free, so a crashed holder
// cannot wedge the resource forever.
//
// Table schema:
//   - Partition key: lock_key (string)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name petrel-locks \
//	  --attribute-definitions AttributeName=lock_key,AttributeType=S \
//	  --key-schema AttributeName=lock_key,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
type DynamoLock struct {
	client     DDBClient
	tableName  string
	key        string
	ttl        time.Duration
	retryDelay time.Duration
	logger     *slog.Logger
}

// DynamoOption configures a DynamoLock.
type DynamoOption func(*DynamoLock)

// WithTTL sets how long an acquired lock stays valid before other suitors
// may steal it. Pick a value comfortably above the longest critical section.
func WithTTL(ttl time.Duration) DynamoOption {
	return func(l *DynamoLock) {
		l.ttl = ttl
	}
}

// WithRetryDelay sets the pause between acquisition attempts.
func WithRetryDelay(delay time.Duration) DynamoOption {
	return func(l *DynamoLock) {
		l.retryDelay = delay
	}
}

// WithLogger sets the logger used for release failures.
func WithLogger(logger *slog.Logger) DynamoOption {
	return func(l *DynamoLock) {
		l.logger = logger
	}
}

// NewDynamoLock creates a lock identified by key in the given table.
func NewDynamoLock(client DDBClient, tableName, key string, optFns ...DynamoOption) *DynamoLock {
	l := &DynamoLock{
		client:     client,
		tableName:  tableName,
		key:        key,
		ttl:        defaultTTL,
		retryDelay: defaultRetryDelay,
	}

	for _, fn := range optFns {
		if fn != nil {
			fn(l)
		}
	}

	return l
}

var errHeld = errors.New("lock is held by another owner")

// Lock acquires the lock, retrying until it is held or ctx is done.
func (l *DynamoLock) Lock(ctx context.Context) (func(), error) {
	// A fresh owner ID per acquisition fences the release: only the
	// acquisition that wrote the item may delete it.
	owner := uuid.NewString()

	for {
		err := l.tryAcquire(ctx, owner)
		if err == nil {
			return func() { l.release(owner) }, nil
		}

		if !errors.Is(err, errHeld) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("cannot acquire lock %q: %w", l.key, ctx.Err())
		case <-time.After(l.retryDelay):
		}
	}
}

// tryAcquire performs one conditional put. The condition treats a missing
// item and an expired item the same way: free for the taking.
func (l *DynamoLock) tryAcquire(ctx context.Context, owner string) error {
	now := time.Now()

	_, err := l.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.tableName),
		Item: map[string]types.AttributeValue{
			"lock_key":   &types.AttributeValueMemberS{Value: l.key},
			"owner_id":   &types.AttributeValueMemberS{Value: owner},
			"expires_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(l.ttl).Unix(), 10)},
		},
		ConditionExpression: aws.String("attribute_not_exists(lock_key) OR expires_at < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return errHeld
		}

		return fmt.Errorf("cannot acquire lock %q: %w", l.key, err)
	}

	return nil
}

// release deletes the lock item if this acquisition still owns it. A lock
// that expired and was stolen belongs to someone else now; deleting it
// unconditionally would release theirs.
func (l *DynamoLock) release(owner string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	_, err := l.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(l.tableName),
		Key: map[string]types.AttributeValue{
			"lock_key": &types.AttributeValueMemberS{Value: l.key},
		},
		ConditionExpression: aws.String("owner_id = :owner"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: owner},
		},
	})
	if err == nil {
		return
	}

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		if l.logger != nil {
			l.logger.Warn("lock expired and changed owner before release", "key", l.key)
		}

		return
	}

	if l.logger != nil {
		l.logger.Error("failed to release lock", "key", l.key, "error", err)
	}
}

package lock

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDDBClient emulates the conditional write semantics DynamoLock relies
// on: a put fails while an unexpired item exists, a delete fails unless the
// owner matches.
type fakeDDBClient struct {
	mu     sync.Mutex
	items  map[string]map[string]types.AttributeValue
	putErr error
}

func newFakeDDBClient() *fakeDDBClient {
	return &fakeDDBClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func (f *fakeDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.putErr != nil {
		return nil, f.putErr
	}

	key := stringAttr(params.Item["lock_key"])

	if existing, ok := f.items[key]; ok {
		now, _ := strconv.ParseInt(numberAttr(params.ExpressionAttributeValues[":now"]), 10, 64)
		expires, _ := strconv.ParseInt(numberAttr(existing["expires_at"]), 10, 64)

		if expires >= now {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}

	f.items[key] = params.Item

	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDDBClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := stringAttr(params.Key["lock_key"])

	existing, ok := f.items[key]
	if !ok || stringAttr(existing["owner_id"]) != stringAttr(params.ExpressionAttributeValues[":owner"]) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}

	delete(f.items, key)

	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDDBClient) owner(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[key]
	if !ok {
		return ""
	}

	return stringAttr(item["owner_id"])
}

func (f *fakeDDBClient) setOwner(key, owner string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items[key]["owner_id"] = &types.AttributeValueMemberS{Value: owner}
}

func stringAttr(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}

	return ""
}

func numberAttr(av types.AttributeValue) string {
	if n, ok := av.(*types.AttributeValueMemberN); ok {
		return n.Value
	}

	return ""
}

func TestDynamoLock_AcquireAndRelease(t *testing.T) {
	client := newFakeDDBClient()
	dynamoLock := NewDynamoLock(client, "petrel-locks", "manifest")

	// 1. Acquire writes the lock item.
	release, err := dynamoLock.Lock(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, client.owner("manifest"))

	// 2. Release deletes it.
	release()
	assert.Empty(t, client.owner("manifest"))

	// 3. Reacquire after release.
	release, err = dynamoLock.Lock(context.Background())
	require.NoError(t, err)
	release()
}

func TestDynamoLock_ContendedWaits(t *testing.T) {
	client := newFakeDDBClient()
	dynamoLock := NewDynamoLock(client, "petrel-locks", "manifest", WithRetryDelay(10*time.Millisecond))

	release, err := dynamoLock.Lock(context.Background())
	require.NoError(t, err)

	// 1. A second suitor gives up when its context expires.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = dynamoLock.Lock(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// 2. After release the lock is free again.
	release()

	release, err = dynamoLock.Lock(context.Background())
	require.NoError(t, err)
	release()
}

func TestDynamoLock_StealsExpiredLock(t *testing.T) {
	client := newFakeDDBClient()
	client.items["manifest"] = map[string]types.AttributeValue{
		"lock_key":   &types.AttributeValueMemberS{Value: "manifest"},
		"owner_id":   &types.AttributeValueMemberS{Value: "crashed-owner"},
		"expires_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Add(-time.Minute).Unix(), 10)},
	}

	dynamoLock := NewDynamoLock(client, "petrel-locks", "manifest")

	release, err := dynamoLock.Lock(context.Background())
	require.NoError(t, err)
	defer release()

	assert.NotEqual(t, "crashed-owner", client.owner("manifest"))
}

func TestDynamoLock_ReleaseOnlyDeletesOwnLock(t *testing.T) {
	client := newFakeDDBClient()
	dynamoLock := NewDynamoLock(client, "petrel-locks", "manifest")

	release, err := dynamoLock.Lock(context.Background())
	require.NoError(t, err)

	// Someone stole the lock after our TTL lapsed; release must leave
	// their item in place.
	client.setOwner("manifest", "new-owner")

	release()
	assert.Equal(t, "new-owner", client.owner("manifest"))
}

func TestDynamoLock_PutErrorPropagates(t *testing.T) {
	client := newFakeDDBClient()
	client.putErr = errors.New("throttled")

	dynamoLock := NewDynamoLock(client, "petrel-locks", "manifest")

	_, err := dynamoLock.Lock(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot acquire lock")
}
